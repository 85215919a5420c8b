package main

import (
	"encoding/csv"
	"flag"
	"os"
	"strconv"

	"github.com/lintang-b-s/trafficrouter/pkg/logger"
	"github.com/lintang-b-s/trafficrouter/pkg/record"
	"go.uber.org/zap"
)

var (
	recordPath = flag.String("record", "outputData.json", "cost record written by the runner")
	edge       = flag.String("edge", "", "segment id to extract")
)

// writes "step,cost" rows for one segment to stdout, ready for any plotting tool.
func main() {
	flag.Parse()
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if *edge == "" {
		log.Fatal("--edge is required")
	}

	rec, err := record.ReadFile(*recordPath)
	if err != nil {
		log.Fatal("reading record", zap.Error(err))
	}
	series := rec.Series(*edge)
	if len(series) == 0 {
		log.Warn("segment not present in record", zap.String("edge", *edge), zap.Int("entries", len(rec.Entries)))
	}

	w := csv.NewWriter(os.Stdout)
	_ = w.Write([]string{"step", "cost"})
	for _, p := range series {
		_ = w.Write([]string{strconv.Itoa(p.Step), strconv.FormatFloat(p.Cost, 'f', -1, 64)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatal("writing series", zap.Error(err))
	}
}
