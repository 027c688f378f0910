// File path: internal/common/telemetry/telemetry.go
package telemetry

import (
	"context"
	"expvar"
	"sync"
	"time"

	"github.com/docschat/docschat/internal/common"
)

type spanKey struct{}

type span struct {
	name  string
	start time.Time
}

var (
	initOnce sync.Once

	retrievalTotal     *expvar.Int
	retrievalLatencyMS *expvar.Int

	ingestDocsTotal   *expvar.Int
	ingestChunksTotal *expvar.Int

	chatTurnsTotal       *expvar.Map
	generationLatencyMS  *expvar.Int
	generationErrorTotal *expvar.Int
)

func ensureInit() {
	initOnce.Do(func() {
		retrievalTotal = expvar.NewInt("docschat_retrieval_total")
		retrievalLatencyMS = expvar.NewInt("docschat_retrieval_latency_ms")

		ingestDocsTotal = expvar.NewInt("docschat_ingest_docs_total")
		ingestChunksTotal = expvar.NewInt("docschat_ingest_chunks_total")

		chatTurnsTotal = expvar.NewMap("docschat_chat_turns_total")
		generationLatencyMS = expvar.NewInt("docschat_generation_latency_ms")
		generationErrorTotal = expvar.NewInt("docschat_generation_errors_total")
	})
}

func StartSpan(ctx context.Context, name string) (context.Context, func(attrs ...interface{})) {
	ensureInit()
	sp := &span{name: name, start: time.Now()}
	ctx = context.WithValue(ctx, spanKey{}, sp)
	logger := common.Logger()
	logger.Debug("trace: start", "span", name)
	return ctx, func(attrs ...interface{}) {
		if sp == nil {
			return
		}
		duration := time.Since(sp.start)
		logger.Debug("trace: end", append([]interface{}{"span", name, "dur", duration}, attrs...)...)
	}
}

func SpanDuration(ctx context.Context) time.Duration {
	sp, _ := ctx.Value(spanKey{}).(*span)
	if sp == nil {
		return 0
	}
	return time.Since(sp.start)
}

func RecordRetrieval(duration time.Duration) {
	ensureInit()
	retrievalTotal.Add(1)
	if duration > 0 {
		retrievalLatencyMS.Add(duration.Milliseconds())
	}
}

func RecordIngest(chunks int) {
	ensureInit()
	if chunks <= 0 {
		return
	}
	ingestDocsTotal.Add(1)
	ingestChunksTotal.Add(int64(chunks))
}

func RecordChatTurn(mode string, duration time.Duration, failed bool) {
	ensureInit()
	if mode == "" {
		mode = "unknown"
	}
	chatTurnsTotal.Add(mode, 1)
	if duration > 0 {
		generationLatencyMS.Add(duration.Milliseconds())
	}
	if failed {
		generationErrorTotal.Add(1)
	}
}
