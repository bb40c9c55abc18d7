package pipeline

import (
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/picadata/errors"
	"github.com/teranos/picadata/logger"
	"github.com/teranos/picadata/pica"
	"github.com/teranos/picadata/pica/codec"
)

// Result describes a drained run
type Result struct {
	Records  int
	Invalid  int
	Counters *Counters // nil unless counting was enabled
}

// item is the record in flight through the stages
type item struct {
	index   int
	rec     *pica.Record
	invalid bool
}

func (it *item) logger(parent *zap.SugaredLogger) *zap.SugaredLogger {
	return logger.ChildLogger(parent, logger.FieldRecordIndex, it.index, logger.FieldRecordID, it.rec.ID)
}

// stage is one per-record step. Stages run in order and see the record
// left by the previous stage.
type stage struct {
	name string
	run  func(*item) error
}

// Driver streams records from a parser through the configured stages
type Driver struct {
	cfg      Config
	writer   codec.Writer
	reporter *Reporter
	counters *Counters
	stages   []stage
	log      *zap.SugaredLogger
}

// NewDriver prepares a run of cfg. Records, error lines and the summary are
// all written to out: per record, the serialized record first and its
// error lines after it.
func NewDriver(cfg Config, out io.Writer) (*Driver, error) {
	d := &Driver{
		cfg:      cfg,
		reporter: NewReporter(out),
		log:      logger.ComponentLogger("pipeline"),
	}

	if cfg.Path() != nil {
		d.stages = append(d.stages, stage{"project", d.project})
	}
	if to, ok := cfg.To(); ok {
		w, err := codec.NewWriter(to, out)
		if err != nil {
			return nil, err
		}
		d.writer = w
		d.stages = append(d.stages, stage{"write", d.write})
	}
	if cfg.Schema() != nil {
		d.stages = append(d.stages, stage{"validate", d.validate})
	}
	if cfg.Count() {
		d.counters = NewCounters(cfg.Schema() != nil)
		d.stages = append(d.stages, stage{"count", d.count})
	}
	return d, nil
}

// Run drains r. Parse and write failures abort the run; validation failures
// are reported and counted. The writer is finalized and the summary written
// only when the stream ends normally.
func (d *Driver) Run(r io.Reader) (*Result, error) {
	start := time.Now()
	p, err := codec.NewParser(d.cfg.From(), r)
	if err != nil {
		return nil, err
	}

	res := &Result{Counters: d.counters}
	for {
		rec, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			d.log.Debugw("Parse failed", logger.FieldRecordIndex, res.Records+1, logger.FieldError, err)
			return nil, err
		}

		it := &item{index: res.Records + 1, rec: rec}
		for _, s := range d.stages {
			if err := s.run(it); err != nil {
				it.logger(d.log).Debugw("Stage failed", "stage", s.name, logger.FieldError, err)
				return nil, errors.Wrapf(err, "%s record %d", s.name, it.index)
			}
		}
		res.Records++
		if it.invalid {
			res.Invalid++
		}
	}

	if d.writer != nil {
		if err := d.writer.Finalize(); err != nil {
			return nil, err
		}
	}
	if err := d.counters.WriteSummary(d.reporter.w); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "writing summary"), errors.ErrWrite)
	}

	d.log.Infow("Run complete",
		logger.FieldCount, res.Records,
		logger.FieldErrorCount, res.Invalid,
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return res, nil
}

// Run drains r through a new driver for cfg
func Run(cfg Config, r io.Reader, out io.Writer) (*Result, error) {
	d, err := NewDriver(cfg, out)
	if err != nil {
		return nil, err
	}
	return d.Run(r)
}

func (d *Driver) project(it *item) error {
	it.rec = d.cfg.Path().Apply(it.rec)
	return nil
}

func (d *Driver) write(it *item) error {
	return d.writer.Write(it.rec)
}

func (d *Driver) validate(it *item) error {
	msgs := d.cfg.Schema().Check(it.rec, !d.cfg.ReportUnknown())
	if len(msgs) == 0 {
		return nil
	}
	it.invalid = true
	it.logger(d.log).Debugw("Record invalid", logger.FieldErrorCount, len(msgs))
	if err := d.reporter.Report(it.rec.ID, msgs); err != nil {
		return errors.Mark(errors.Wrap(err, "reporting validation errors"), errors.ErrWrite)
	}
	return nil
}

func (d *Driver) count(it *item) error {
	d.counters.Add(it.rec, it.invalid)
	return nil
}
