package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mantoudev/hbase/compression"
	"github.com/mantoudev/hbase/config"
	"github.com/mantoudev/hbase/keyvalue"
)

// forEachRecord streams the records of the file at path through fn.
func forEachRecord(cfg *config.Config, path string, fn func(kv *keyvalue.KeyValue) error) error {
	typ, err := cfg.CompressionType()
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r, err := compression.NewReader(bufio.NewReader(f), typ)
	if err != nil {
		return err
	}
	defer r.Close()

	sr := keyvalue.NewStreamReader(r)
	for {
		kv, err := sr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := fn(kv); err != nil {
			return err
		}
	}
}

func readRecords(cfg *config.Config, path string) ([]*keyvalue.KeyValue, error) {
	var kvs []*keyvalue.KeyValue
	err := forEachRecord(cfg, path, func(kv *keyvalue.KeyValue) error {
		kvs = append(kvs, kv)
		return nil
	})
	return kvs, err
}

// writeRecords writes kvs to path as a terminated stream and returns the
// number of uncompressed stream bytes.
func writeRecords(cfg *config.Config, path string, kvs []*keyvalue.KeyValue) (int64, error) {
	typ, err := cfg.CompressionType()
	if err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	w, err := compression.NewWriter(bw, typ)
	if err != nil {
		return 0, err
	}
	sw := keyvalue.NewStreamWriter(w, true)
	for _, kv := range kvs {
		if err := sw.Write(kv); err != nil {
			return 0, fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	if err := sw.Close(); err != nil {
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	if err := bw.Flush(); err != nil {
		return 0, err
	}
	return sw.Written(), f.Close()
}
