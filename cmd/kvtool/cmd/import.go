package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mantoudev/hbase/common"
	"github.com/mantoudev/hbase/config"
	"github.com/mantoudev/hbase/keyvalue"
)

const maxLineSize = 64 << 20

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <tsv> <out>",
		Short: "Convert tab separated text into a record stream",
		Long: `Convert tab separated text into a record stream.

Each line holds six fields:

  row  family  qualifier  timestamp  type  value

Binary bytes are written as \xNN escapes. The timestamp may be LATEST and the
type is a type name such as Put or DeleteColumn. Empty lines and lines
starting with # are skipped.

Example:
  kvtool import cells.tsv cells.kv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			in, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer in.Close()

			kvs, err := parseRecords(cfg, in)
			if err != nil {
				return err
			}
			written, err := writeRecords(cfg, args[1], kvs)
			if err != nil {
				return err
			}
			zap.L().Info("Imported records",
				zap.String("from", args[0]),
				zap.String("to", args[1]),
				zap.Int("records", len(kvs)),
				zap.Int64("bytes", written))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d records\n", len(kvs))
			return nil
		},
	}
}

func parseRecords(cfg *config.Config, r io.Reader) ([]*keyvalue.KeyValue, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var kvs []*keyvalue.KeyValue
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		kv, err := parseRecord(cfg, line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		kvs = append(kvs, kv)
	}
	return kvs, scanner.Err()
}

func parseRecord(cfg *config.Config, line string) (*keyvalue.KeyValue, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 6 {
		return nil, fmt.Errorf("%w: want 6 tab separated fields, got %d", common.MalformedInputError, len(fields))
	}

	ts := common.LatestTimestamp
	if fields[3] != "LATEST" {
		var err error
		if ts, err = strconv.ParseInt(fields[3], 10, 64); err != nil {
			return nil, fmt.Errorf("%w: timestamp %q", common.MalformedInputError, fields[3])
		}
	}
	typ, err := keyvalue.ParseType(fields[4])
	if err != nil {
		return nil, err
	}
	return keyvalue.New(
		common.ToBytesBinary(fields[0]),
		common.ToBytesBinary(fields[1]),
		common.ToBytesBinary(fields[2]),
		ts, typ,
		common.ToBytesBinary(fields[5]),
		cfg.KeyValueOptions()...,
	)
}
