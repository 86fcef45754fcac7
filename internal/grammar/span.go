package grammar

import "fortio.org/safecast"

const maxUint32 = ^uint32(0)

func safeCol(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

func makeToken(scope Scope, start, end int) Token {
	return Token{Scope: scope, Start: safeCol(start), End: safeCol(end)}
}
