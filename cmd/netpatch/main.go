package main

import (
	"flag"

	"github.com/lintang-b-s/trafficrouter/pkg"
	"github.com/lintang-b-s/trafficrouter/pkg/logger"
	"github.com/lintang-b-s/trafficrouter/pkg/netpatch"
	"go.uber.org/zap"
)

var (
	netPath     = flag.String("net", "osm.net.xml", "sumo network")
	outPath     = flag.String("out", "patch.edg.xml", "netconvert edge patch to write")
	minPriority = flag.Int("min_priority", pkg.DEFAULT_MIN_PATCH_PRIORITY, "edges ranked below this are deleted (8 = primary_link)")
)

func main() {
	flag.Parse()
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if _, err := netpatch.PatchFile(*netPath, *outPath, *minPriority, log); err != nil {
		log.Fatal("writing edge patch", zap.Error(err))
	}
}
