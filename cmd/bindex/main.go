package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	bindex "github.com/Rafi-ctrl/CS4348-Project3"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: bindex <command> [arguments]

commands:
  create  <file>                create a new index file
  insert  <file> <key> <value>  insert one key/value pair
  search  <file> <key>          look up a key
  load    <file> <csv>          insert every key,value row of a csv file
  print   <file>                print all pairs in key order
  extract <file> <csv>          write all pairs to a new csv file
`)
	os.Exit(2)
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if len(os.Args) < 3 {
		usage()
	}
	cmd, path, args := os.Args[1], os.Args[2], os.Args[3:]
	var err error
	switch cmd {
	case "create":
		if len(args) != 0 {
			usage()
		}
		err = cmdCreate(log, path)
	case "insert":
		if len(args) != 2 {
			usage()
		}
		err = cmdInsert(log, path, args[0], args[1])
	case "search":
		if len(args) != 1 {
			usage()
		}
		err = cmdSearch(log, path, args[0])
	case "load":
		if len(args) != 1 {
			usage()
		}
		err = cmdLoad(log, path, args[0])
	case "print":
		if len(args) != 0 {
			usage()
		}
		err = cmdPrint(log, path)
	case "extract":
		if len(args) != 1 {
			usage()
		}
		err = cmdExtract(log, path, args[0])
	default:
		usage()
	}
	if err != nil {
		log.Error(cmd+" failed", "err", err)
		os.Exit(1)
	}
}

func openTree(log *slog.Logger, path string) (*bindex.BTree, error) {
	bt := bindex.NewBTree(bindex.Config{
		Path:   path,
		Logger: log,
	})
	if err := bt.Open(); err != nil {
		return nil, err
	}
	return bt, nil
}

func parseU64(field, s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q: %w", field, s, err)
	}
	return v, nil
}

func cmdCreate(log *slog.Logger, path string) error {
	bt := bindex.NewBTree(bindex.Config{
		Path:   path,
		Logger: log,
	})
	if err := bt.Create(); err != nil {
		return err
	}
	return bt.Close()
}

func cmdInsert(log *slog.Logger, path, keyStr, valStr string) error {
	key, err := parseU64("key", keyStr)
	if err != nil {
		return err
	}
	val, err := parseU64("value", valStr)
	if err != nil {
		return err
	}
	bt, err := openTree(log, path)
	if err != nil {
		return err
	}
	if err = bt.Put(key, val); err != nil {
		bt.Close()
		return err
	}
	return bt.Close()
}

func cmdSearch(log *slog.Logger, path, keyStr string) error {
	key, err := parseU64("key", keyStr)
	if err != nil {
		return err
	}
	bt, err := openTree(log, path)
	if err != nil {
		return err
	}
	val, err := bt.Get(key)
	closeErr := bt.Close()
	if errors.Is(err, bindex.ErrKeyNotFound) {
		fmt.Printf("key %d not found\n", key)
		return closeErr
	}
	if err != nil {
		return err
	}
	fmt.Printf("%d %d\n", key, val)
	return closeErr
}

func cmdLoad(log *slog.Logger, path, csvPath string) error {
	f, err := os.Open(csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return bindex.ErrNotFound
		}
		return err
	}
	defer f.Close()
	bt, err := openTree(log, path)
	if err != nil {
		return err
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			bt.Close()
			return err
		}
		if len(rec) == 0 {
			continue
		}
		if len(rec) != 2 {
			bt.Close()
			return fmt.Errorf("bad csv row %v: want 2 fields", rec)
		}
		key, err := parseU64("key", rec[0])
		if err != nil {
			bt.Close()
			return err
		}
		val, err := parseU64("value", rec[1])
		if err != nil {
			bt.Close()
			return err
		}
		if err = bt.Put(key, val); err != nil {
			if errors.Is(err, bindex.ErrDuplicateKey) {
				log.Warn("duplicate key skipped", "key", key)
				continue
			}
			bt.Close()
			return err
		}
	}
	return bt.Close()
}

func cmdPrint(log *slog.Logger, path string) error {
	bt, err := openTree(log, path)
	if err != nil {
		return err
	}
	err = bt.Ascend(func(key, val uint64) bool {
		fmt.Printf("%d %d\n", key, val)
		return true
	})
	if err != nil {
		bt.Close()
		return err
	}
	return bt.Close()
}

func cmdExtract(log *slog.Logger, path, csvPath string) error {
	out, err := os.OpenFile(csvPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return bindex.ErrAlreadyExists
		}
		return err
	}
	defer out.Close()
	bt, err := openTree(log, path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(out)
	err = bt.Ascend(func(key, val uint64) bool {
		return w.Write([]string{
			strconv.FormatUint(key, 10),
			strconv.FormatUint(val, 10),
		}) == nil
	})
	if err != nil {
		bt.Close()
		return err
	}
	w.Flush()
	if err = w.Error(); err != nil {
		bt.Close()
		return err
	}
	return bt.Close()
}
