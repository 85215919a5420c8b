package netparser

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
	"github.com/lintang-b-s/trafficrouter/pkg/util"
	"go.uber.org/zap"
)

// Load reads a road network, picking the format from the file name.
// .net.xml is a sumo network, .osm / .osm.pbf is openstreetmap; a trailing .bz2 is decompressed first.
// every failure wraps util.ErrNetworkLoad.
func Load(ctx context.Context, path string, logger *zap.Logger) (*da.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNetworkLoad, "opening network %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	name := path
	if strings.HasSuffix(name, BZIP2_SUFFIX) {
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrNetworkLoad, "opening bzip2 stream %s", path)
		}
		defer bz.Close()
		r = bz
		name = strings.TrimSuffix(name, BZIP2_SUFFIX)
	}

	logger.Info("loading road network", zap.String("path", path))

	var network *da.Network
	switch {
	case strings.HasSuffix(name, SUMO_NET_SUFFIX):
		network, err = ParseSumo(r)
	case strings.HasSuffix(name, OSM_PBF_SUFFIX):
		network, err = NewOsmParser(logger).ParsePBF(ctx, r)
	case strings.HasSuffix(name, OSM_XML_SUFFIX):
		network, err = NewOsmParser(logger).ParseXML(ctx, r)
	default:
		return nil, util.WrapErrorf(nil, util.ErrNetworkLoad, "unsupported network format %s", path)
	}
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNetworkLoad, "parsing network %s", path)
	}

	logger.Sugar().Infof("number of routable segments: %v", network.NumberOfSegments())
	return network, nil
}
