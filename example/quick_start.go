package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path"

	bindex "github.com/Rafi-ctrl/CS4348-Project3"
)

func main() {
	err := os.MkdirAll("dbset", 0755)
	if err != nil {
		panic(err)
	}
	// create index file with path dbset/quick_start.idx
	t := bindex.NewBTree(bindex.Config{
		Path: path.Join("dbset", "quick_start.idx"),
	})
	err = t.Create()
	if err != nil {
		panic(err)
	}
	for i := uint64(0); i < 64; i++ {
		err = t.Put(i, rand.Uint64())
		if err != nil {
			panic(fmt.Errorf("put err:%v", err))
		}
	}
	for i := 0; i < 8; i++ {
		k := rand.Uint64N(63)
		v, err := t.Get(k)
		if err != nil {
			panic(fmt.Errorf("get err:%v", err))
		}
		fmt.Printf("tree.getVal key=%d, val=%d\n", k, v)
	}
	// walk all pairs in key order
	err = t.Ascend(func(key, val uint64) bool {
		fmt.Printf("%d %d\n", key, val)
		return true
	})
	if err != nil {
		panic(fmt.Errorf("ascend err:%v", err))
	}
	// close, flush dirty nodes
	err = t.Close()
	if err != nil {
		panic(fmt.Errorf("close err:%v", err))
	}
}
