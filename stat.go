package bindex

import "sync/atomic"

type ExportStat struct {
	CacheHit   uint64
	CacheMis   uint64
	Evictions  uint64
	WriteBacks uint64
}

type iStat struct {
	cacheHit   atomic.Uint64
	cacheMis   atomic.Uint64
	evictions  atomic.Uint64
	writeBacks atomic.Uint64
}

func (s *iStat) export() ExportStat {
	return ExportStat{
		CacheHit:   s.cacheHit.Load(),
		CacheMis:   s.cacheMis.Load(),
		Evictions:  s.evictions.Load(),
		WriteBacks: s.writeBacks.Load(),
	}
}
