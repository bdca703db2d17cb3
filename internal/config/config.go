package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"castles/internal/castles"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config 服务端配置：先取默认值，再叠加 YAML 文件，最后是环境变量
type Config struct {
	Addr    string   `yaml:"addr"`
	Seed    int64    `yaml:"seed"` // AI 随机源，0 表示用当前时间
	Board   Board    `yaml:"board"`
	Players []string `yaml:"players"`
}

type Board struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Layout 完整的局面编码（地形 玩家 单位），非空时代替标准开局
	Layout string `yaml:"layout"`
}

func Default() Config {
	return Config{
		Addr: ":2888",
		Board: Board{
			Width:  castles.DefaultWidth,
			Height: castles.DefaultHeight,
		},
		Players: []string{"Red", "Blue"},
	}
}

// Load 读取 YAML 配置。path 为空时只用默认值和环境变量。
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := decode(f, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	// 空文件不算错
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv 环境变量覆盖：CASTLES_ADDR, CASTLES_SEED, CASTLES_BOARD_WIDTH,
// CASTLES_BOARD_HEIGHT, CASTLES_LAYOUT, CASTLES_PLAYERS（逗号分隔）
func (c *Config) ApplyEnv() {
	c.Addr = getenv("CASTLES_ADDR", c.Addr)
	c.Seed = int64(getenvInt("CASTLES_SEED", int(c.Seed)))
	c.Board.Width = getenvInt("CASTLES_BOARD_WIDTH", c.Board.Width)
	c.Board.Height = getenvInt("CASTLES_BOARD_HEIGHT", c.Board.Height)
	c.Board.Layout = getenv("CASTLES_LAYOUT", c.Board.Layout)
	if v := getenv("CASTLES_PLAYERS", ""); v != "" {
		var names []string
		for _, n := range strings.Split(v, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		c.Players = names
	}
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if c.Board.Layout != "" {
		if _, err := castles.DecodePosition(c.Board.Layout); err != nil {
			return fmt.Errorf("%w: board layout: %w", ErrInvalidConfig, err)
		}
		return nil
	}
	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		return fmt.Errorf("%w: board size %dx%d", ErrInvalidConfig, c.Board.Width, c.Board.Height)
	}
	// 标准开局会检查尺寸和玩家名
	if _, err := c.NewPosition(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// NewPosition 按配置摆出一局新棋
func (c Config) NewPosition() (*castles.Position, error) {
	if c.Board.Layout != "" {
		return castles.DecodePosition(c.Board.Layout)
	}
	return castles.NewStandardPosition(c.Board.Width, c.Board.Height, c.Players...)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}
