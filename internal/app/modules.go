package app

import (
	"io"

	"github.com/vk/evogrid/internal/metrics"
	"github.com/vk/evogrid/internal/registry"
	"github.com/vk/evogrid/modules/archiver"
	"github.com/vk/evogrid/modules/bitsorg"
	"github.com/vk/evogrid/modules/evalones"
	"github.com/vk/evogrid/modules/placement"
	"github.com/vk/evogrid/modules/print"
	"github.com/vk/evogrid/modules/selection"
	"github.com/vk/evogrid/modules/stats"
	"github.com/vk/evogrid/modules/stream"
	"github.com/vk/evogrid/modules/webhook"
)

// coreModules is the list of module plugins compiled into the evogrid
// binary. Metrics modules report to rec and Print modules write to out.
func coreModules(rec *metrics.Recorder, out io.Writer) []registry.Plugin {
	return []registry.Plugin{
		bitsorg.Plugin{},
		evalones.Plugin{},
		selection.Plugin{},
		placement.Plugin{},
		print.Plugin{Output: out},
		archiver.Plugin{},
		stats.Plugin{Recorder: rec},
		stream.Plugin{},
		webhook.Plugin{},
	}
}
