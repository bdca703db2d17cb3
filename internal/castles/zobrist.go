package castles

// 棋盘尺寸可配置，所以键不查表，直接由 (side, class, 格子, 标记) 经 splitmix64 混合得到。
const zobristSeed = uint64(0x9E3779B97F4A7C15)

func splitmix(z uint64) uint64 {
	z += zobristSeed
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func unitHashKey(u *Unit, sq int) uint64 {
	if u == nil || u.Owner == nil {
		return 0
	}
	k := uint64(u.Side()+1)<<56 | uint64(u.Class)<<48 | uint64(sq)<<1
	if u.Moved {
		k |= 1
	}
	return splitmix(k)
}

func playerHashKey(pl *Player) uint64 {
	k := uint64(1)<<63 | uint64(pl.Side+1)<<40 | uint64(pl.RoyaltyCount)<<8
	if pl.Lost {
		k |= 1
	}
	return splitmix(k)
}

// Hash 全量计算局面哈希：单位（含已行动标记）+ 玩家状态。地形开局后不变，不计入。
func (p *Position) Hash() uint64 {
	var h uint64
	for sq, u := range p.Board.units {
		if u != nil {
			h ^= unitHashKey(u, sq)
		}
	}
	for _, pl := range p.Players {
		h ^= playerHashKey(pl)
	}
	return h
}

// HashAfterMove 增量算出走完 m 之后的哈希，不改动局面。m 应当来自 Moves。
func (p *Position) HashAfterMove(m Move) uint64 {
	h := p.Hash()
	b := p.Board
	u := b.UnitAt(m.FromX, m.FromY)
	if u == nil || !b.InBounds(m.ToX, m.ToY) {
		return h
	}
	from, to := b.indexOf(m.FromX, m.FromY), b.indexOf(m.ToX, m.ToY)

	h ^= unitHashKey(u, from)
	after := *u
	after.Moved = true
	h ^= unitHashKey(&after, to)

	if t := b.UnitAt(m.ToX, m.ToY); t != nil && t != u {
		h ^= unitHashKey(t, to)
		if t.Royalty() {
			h ^= playerHashKey(t.Owner)
			owner := *t.Owner
			owner.RoyaltyCount--
			h ^= playerHashKey(&owner)
		}
	}
	if b.TerrainAt(m.ToX, m.ToY) == Castle {
		if owner := p.CastleOwner(m.ToX, m.ToY); owner != nil && owner != u.Owner && !owner.Lost {
			// 同一格上的王族被吃和城堡失守可能同时发生
			cur := *owner
			if t := b.UnitAt(m.ToX, m.ToY); t != nil && t.Owner == owner && t.Royalty() {
				cur.RoyaltyCount--
			}
			h ^= playerHashKey(&cur)
			cur.Lost = true
			h ^= playerHashKey(&cur)
		}
	}
	return h
}
