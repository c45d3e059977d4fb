package exprcalc

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type depthopt int

// MaxDepth limits how deeply factors may nest during parsing. Every factor
// counts as a level, including literals, so "1" needs one level and "(1)" or
// "-1" need two. Parsing input that nests deeper fails with a DepthError. A limit of 0
// removes the bound, which is the default; then nesting is limited only by
// available stack. Panics if n is negative.
func MaxDepth(n int) ParseOption {
	if n < 0 {
		panic("exprcalc: negative max depth")
	}
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxdepth = int(o)
	return p
}
