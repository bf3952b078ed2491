package pipeline

// Pipeline stages, emitted in order as each completes.
const (
	StageParsed           = "parsed"
	StageSignalsGenerated = "signals_generated"
	StageSimulated        = "simulated"
	StageMetricsComputed  = "metrics_computed"
)

// ProgressSink receives discrete stage-completion events from a running
// backtest. Delivery is fire-and-forget: the pipeline never blocks on or
// waits for a sink, so implementations must not do slow work inline.
type ProgressSink interface {
	StageCompleted(stage string)
}

// ProgressFunc adapts a function to the ProgressSink interface.
type ProgressFunc func(stage string)

func (f ProgressFunc) StageCompleted(stage string) {
	f(stage)
}

func notify(sink ProgressSink, stage string) {
	if sink != nil {
		sink.StageCompleted(stage)
	}
}
