package netpatch

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/lintang-b-s/trafficrouter/pkg"
	"github.com/lintang-b-s/trafficrouter/pkg/netparser"
	"github.com/lintang-b-s/trafficrouter/pkg/util"
	"go.uber.org/zap"
)

// Patch is a netconvert edge patch file: <edges><delete id="..."/>...</edges>.
type Patch struct {
	XMLName xml.Name     `xml:"edges"`
	Deletes []DeleteEdge `xml:"delete"`
}

type DeleteEdge struct {
	ID string `xml:"id,attr"`
}

// Build deletes every non-internal edge ranked below minPriority. edge order follows the network file.
func Build(edges []netparser.SumoEdgePriority, minPriority int) Patch {
	if minPriority <= 0 {
		minPriority = pkg.DEFAULT_MIN_PATCH_PRIORITY
	}
	p := Patch{Deletes: make([]DeleteEdge, 0)}
	for _, e := range edges {
		if e.Internal || e.Priority >= minPriority {
			continue
		}
		p.Deletes = append(p.Deletes, DeleteEdge{ID: e.ID})
	}
	return p
}

func (p Patch) Write(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(p); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// PatchFile reads netPath and writes the patch for it to outPath. returns the number of deleted edges.
func PatchFile(netPath, outPath string, minPriority int, logger *zap.Logger) (int, error) {
	in, err := os.Open(netPath)
	if err != nil {
		return 0, util.WrapErrorf(err, util.ErrNetworkLoad, "opening network %s", netPath)
	}
	defer in.Close()

	edges, err := netparser.ReadSumoPriorities(in)
	if err != nil {
		return 0, util.WrapErrorf(err, util.ErrNetworkLoad, "reading edge priorities of %s", netPath)
	}
	patch := Build(edges, minPriority)

	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("creating patch file %s: %w", outPath, err)
	}
	if err := patch.Write(out); err != nil {
		out.Close()
		return 0, fmt.Errorf("writing patch file %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return 0, err
	}

	logger.Info("edge patch written", zap.String("path", outPath), zap.Int("edges", len(edges)),
		zap.Int("deleted", len(patch.Deletes)))
	return len(patch.Deletes), nil
}
