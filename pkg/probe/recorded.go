package probe

import (
	"context"

	"github.com/arc-language/buildenv/pkg/logsink"
)

// Recorded appends one line per probe attempt to sink.
func Recorded(next Prober, sink *logsink.Sink) Prober {
	return ProberFunc(func(ctx context.Context, req Request) (Result, error) {
		res, err := next.Probe(ctx, req)
		if err != nil {
			sink.Append("probe %s [%s] at %s: headers=%v libs=%v: FAILED: %v",
				req.Package, req.Variant, req.Root, req.Headers, req.Libraries, err)
			return res, err
		}
		sink.Append("probe %s [%s] at %s: headers=%v libs=%v: ok include=%v lib=%v library=%q",
			req.Package, req.Variant, req.Root, req.Headers, req.Libraries, res.Include, res.Lib, res.Library)
		return res, nil
	})
}
