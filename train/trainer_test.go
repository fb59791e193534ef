package train

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/mlkit-go/seqtrain/core/model"
)

// passthroughModel returns its input as logits, so tests control the
// "predictions" by controlling the batch inputs.
type passthroughModel struct {
	backwardCalls int
	snapshots     int
}

func (m *passthroughModel) Forward(x *mat.Dense) *mat.Dense { return x }
func (m *passthroughModel) Backward(grad *mat.Dense)        { m.backwardCalls++ }
func (m *passthroughModel) Snapshot() (*model.Snapshot, error) {
	m.snapshots++
	return &model.Snapshot{Arch: "passthrough", Version: model.SnapshotVersion}, nil
}
func (m *passthroughModel) Restore(*model.Snapshot) error { return nil }

// scriptedObjective returns a fixed loss per call and a zero gradient.
type scriptedObjective struct {
	losses []float64
	call   int
}

func (o *scriptedObjective) Loss(logits, targets *mat.Dense) (float64, *mat.Dense, error) {
	loss := o.losses[o.call%len(o.losses)]
	o.call++
	r, c := logits.Dims()
	return loss, mat.NewDense(r, c, nil), nil
}

type recordingOptimizer struct {
	lr        float64
	steps     int
	zeroCalls int
	rates     []float64
}

func (o *recordingOptimizer) Step()                 { o.steps++ }
func (o *recordingOptimizer) ZeroGrad()             { o.zeroCalls++ }
func (o *recordingOptimizer) LearningRate() float64 { return o.lr }
func (o *recordingOptimizer) SetLearningRate(lr float64) {
	o.lr = lr
	o.rates = append(o.rates, lr)
}

// sliceSource serves fixed batches in order, restarting on Reset.
type sliceSource struct {
	xs, ys []*mat.Dense
	pos    int
	resets int
}

func (s *sliceSource) Reset() {
	s.pos = 0
	s.resets++
}

func (s *sliceSource) Next() (*mat.Dense, *mat.Dense, bool) {
	if s.pos >= len(s.xs) {
		return nil, nil, false
	}
	x, y := s.xs[s.pos], s.ys[s.pos]
	s.pos++
	return x, y, true
}

func (s *sliceSource) Batches() int { return len(s.xs) }

type recordingStore struct {
	epochs []int
	losses []float64
}

func (st *recordingStore) Save(snap *model.Snapshot, epoch int, validLoss float64) (string, error) {
	st.epochs = append(st.epochs, epoch)
	st.losses = append(st.losses, validLoss)
	return "", nil
}

type recordingReporter struct {
	series map[string][]float64
	closed bool
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{series: make(map[string][]float64)}
}

func (r *recordingReporter) Log(epoch int, series string, value float64) error {
	r.series[series] = append(r.series[series], value)
	return nil
}

func (r *recordingReporter) Close() error {
	r.closed = true
	return nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Epochs = 1
	cfg.BatchSize = 2
	cfg.ValidBatchSize = 2
	return cfg
}

// twoLabelBatches builds batches whose inputs double as logits for the
// passthrough model.
func twoLabelBatches(vals ...[]float64) ([]*mat.Dense, []*mat.Dense) {
	var xs, ys []*mat.Dense
	for i := 0; i < len(vals); i += 2 {
		rows := len(vals[i]) / 2
		xs = append(xs, mat.NewDense(rows, 2, vals[i]))
		ys = append(ys, mat.NewDense(rows, 2, vals[i+1]))
	}
	return xs, ys
}

func TestTrainerSingleEpochLossAggregation(t *testing.T) {
	// 4 training samples, batch size 2: exactly 2 batches. The returned
	// loss must be the mean of the per-batch objective values.
	xs, ys := twoLabelBatches(
		[]float64{10, -10, -10, 10}, []float64{1, 0, 0, 1},
		[]float64{10, 10, -10, -10}, []float64{1, 1, 0, 0},
	)
	trainSrc := &sliceSource{xs: xs, ys: ys}

	vx, vy := twoLabelBatches([]float64{10, -10, -10, 10}, []float64{1, 0, 0, 1})
	validSrc := &sliceSource{xs: vx, ys: vy}

	m := &passthroughModel{}
	obj := &scriptedObjective{losses: []float64{0.5, 1.0, 0.2}}
	opt := &recordingOptimizer{lr: 5e-4}
	store := &recordingStore{}
	rep := newRecordingReporter()

	tr, err := NewTrainer(testConfig(), m, obj, opt, trainSrc, validSrc, store, rep)
	require.NoError(t, err)
	require.NoError(t, tr.Fit())

	// Two training batches consumed: zero-grad, backward and step once per
	// batch, in order.
	assert.Equal(t, 2, opt.zeroCalls)
	assert.Equal(t, 2, opt.steps)
	assert.Equal(t, 2, m.backwardCalls)

	// mean(0.5, 1.0) = 0.75
	require.Len(t, rep.series[SeriesTrainLoss], 1)
	assert.Equal(t, 0.75, rep.series[SeriesTrainLoss][0])

	// Validation consumed the third scripted loss.
	assert.Equal(t, []float64{0.2}, rep.series[SeriesValidLoss])
	// Passthrough logits match targets exactly.
	assert.Equal(t, []float64{1.0}, rep.series[SeriesValidAccuracy])

	// One checkpoint, unconditionally, tagged with the validation loss.
	assert.Equal(t, []int{1}, store.epochs)
	assert.Equal(t, []float64{0.2}, store.losses)
	assert.Equal(t, 1, m.snapshots)

	assert.True(t, rep.closed)
}

func TestTrainerValidationAccuracy(t *testing.T) {
	// 4 validation samples in one batch; one sample misses one label
	// dimension: exact-match accuracy is 0.75.
	vx := mat.NewDense(4, 2, []float64{
		10, -10,
		-10, 10,
		10, 10,
		-10, -10,
	})
	vy := mat.NewDense(4, 2, []float64{
		1, 0,
		0, 1,
		1, 1,
		0, 1,
	})

	tx, ty := twoLabelBatches([]float64{10, -10, -10, 10}, []float64{1, 0, 0, 1})

	cfg := testConfig()
	rep := newRecordingReporter()
	tr, err := NewTrainer(cfg,
		&passthroughModel{},
		&scriptedObjective{losses: []float64{0.3}},
		&recordingOptimizer{lr: 5e-4},
		&sliceSource{xs: tx, ys: ty},
		&sliceSource{xs: []*mat.Dense{vx}, ys: []*mat.Dense{vy}},
		&recordingStore{},
		rep,
	)
	require.NoError(t, err)
	require.NoError(t, tr.Fit())

	assert.Equal(t, []float64{0.75}, rep.series[SeriesValidAccuracy])
}

func TestTrainerPlateauReducesRate(t *testing.T) {
	// Constant validation loss with patience 0: epoch 1 improves from
	// +Inf, every later epoch reduces the rate by the factor.
	xs, ys := twoLabelBatches([]float64{10, -10, -10, 10}, []float64{1, 0, 0, 1})

	cfg := testConfig()
	cfg.Epochs = 3
	cfg.Patience = 0

	opt := &recordingOptimizer{lr: 0.1}
	tr, err := NewTrainer(cfg,
		&passthroughModel{},
		&scriptedObjective{losses: []float64{0.5}},
		opt,
		&sliceSource{xs: xs, ys: ys},
		&sliceSource{xs: xs, ys: ys},
		&recordingStore{},
		nil,
	)
	require.NoError(t, err)
	require.NoError(t, tr.Fit())

	// Reductions applied after epochs 2 and 3.
	require.Len(t, opt.rates, 2)
	assert.InDelta(t, 0.01, opt.rates[0], 1e-12)
	assert.InDelta(t, 0.001, opt.rates[1], 1e-12)
}

func TestTrainerEpochsAndResets(t *testing.T) {
	xs, ys := twoLabelBatches([]float64{10, -10, -10, 10}, []float64{1, 0, 0, 1})
	trainSrc := &sliceSource{xs: xs, ys: ys}
	validSrc := &sliceSource{xs: xs, ys: ys}
	store := &recordingStore{}

	cfg := testConfig()
	cfg.Epochs = 5

	tr, err := NewTrainer(cfg,
		&passthroughModel{},
		&scriptedObjective{losses: []float64{0.4}},
		&recordingOptimizer{lr: 5e-4},
		trainSrc, validSrc, store, nil,
	)
	require.NoError(t, err)
	require.NoError(t, tr.Fit())

	// One reset per epoch per split; epoch indices 1-based and contiguous.
	assert.Equal(t, 5, trainSrc.resets)
	assert.Equal(t, 5, validSrc.resets)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, store.epochs)
}

func TestNewTrainerValidation(t *testing.T) {
	xs, ys := twoLabelBatches([]float64{10, -10, -10, 10}, []float64{1, 0, 0, 1})
	src := &sliceSource{xs: xs, ys: ys}
	m := &passthroughModel{}
	obj := &scriptedObjective{losses: []float64{0.4}}
	opt := &recordingOptimizer{lr: 5e-4}
	store := &recordingStore{}

	t.Run("Nil model", func(t *testing.T) {
		_, err := NewTrainer(testConfig(), nil, obj, opt, src, src, store, nil)
		assert.Error(t, err)
	})

	t.Run("Invalid epochs", func(t *testing.T) {
		cfg := testConfig()
		cfg.Epochs = 0
		_, err := NewTrainer(cfg, m, obj, opt, src, src, store, nil)
		assert.Error(t, err)
	})

	t.Run("Accelerator unavailable", func(t *testing.T) {
		cfg := testConfig()
		cfg.Device = DeviceAccelerator
		_, err := NewTrainer(cfg, m, obj, opt, src, src, store, nil)
		assert.Error(t, err)
	})

	t.Run("Nil reporter becomes no-op", func(t *testing.T) {
		tr, err := NewTrainer(testConfig(), m, obj, opt, src, src, store, nil)
		require.NoError(t, err)
		assert.NotNil(t, tr.reporter)
	})
}

func TestSetupDevice(t *testing.T) {
	tests := []struct {
		name    string
		in      Device
		want    Device
		wantErr bool
	}{
		{name: "Default empty", in: "", want: DeviceCPU},
		{name: "CPU", in: DeviceCPU, want: DeviceCPU},
		{name: "Accelerator unavailable", in: DeviceAccelerator, wantErr: true},
		{name: "Unknown", in: Device("tpu"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SetupDevice(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
