// Package runner drives a CHIP-8 VM in real time: it executes instructions at
// a fixed rate, ticks the timers at 60 Hz and hands frames to a frontend.
package runner

import (
	"context"
	"time"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/internal/disasm"
	"github.com/retroenv/retrogolib/log"
)

// maxCatchUp limits how many timer ticks are replayed after the host stalled.
const maxCatchUp = 4

// Frontend is the host side of the emulator: input, video and sound.
type Frontend interface {
	// Poll processes pending host events, updating the keypad the VM reads
	// from. It returns true when the user asked to quit.
	Poll() (quit bool)
	// Present shows a frame. It is only called when the display changed.
	Present(display *internal.Display)
	// Beep starts or stops the tone. It is only called on changes.
	Beep(on bool)
}

// ProgramSource is implemented by frontends that receive new programs while
// the emulator runs, for example ROM files dropped onto the window.
type ProgramSource interface {
	// NextProgram returns the program received since the last call, if any.
	NextProgram() (name string, data []byte, ok bool)
}

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock returns the wall clock of the host.
func SystemClock() Clock {
	return systemClock{}
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(r *Runner) {
		r.clock = clock
	}
}

// WithInstructionPeriod sets the time one instruction takes.
func WithInstructionPeriod(period time.Duration) Option {
	return func(r *Runner) {
		if period > 0 {
			r.period = period
		}
	}
}

// WithTrace logs every executed instruction at debug level.
func WithTrace(trace bool) Option {
	return func(r *Runner) {
		r.trace = trace
	}
}

// Runner executes a VM against a frontend.
type Runner struct {
	vm       *internal.C8VM
	frontend Frontend
	logger   *log.Logger
	clock    Clock

	period   time.Duration
	trace    bool
	lastTick time.Time
	beeping  bool
	started  bool
}

// New returns a runner for a VM that has its program loaded.
func New(vm *internal.C8VM, frontend Frontend, logger *log.Logger, opts ...Option) *Runner {
	r := &Runner{
		vm:       vm,
		frontend: frontend,
		logger:   logger,
		clock:    SystemClock(),
		period:   time.Second / 700,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the program until the context is cancelled, the frontend asks
// to quit or an instruction fails. Quitting returns nil.
func (r *Runner) Run(ctx context.Context) error {
	r.start()
	r.logger.Debug("Running program",
		log.Hex("pc", r.vm.PC()),
		log.String("period", r.period.String()),
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.frontend.Poll() {
			r.stopBeep()
			return nil
		}
		r.swapProgram()

		begin := r.clock.Now()
		if err := r.Step(); err != nil {
			r.stopBeep()
			return err
		}
		if rest := r.period - r.clock.Now().Sub(begin); rest > 0 {
			r.clock.Sleep(rest)
		}
	}
}

// Step executes one instruction, then ticks the timers and presents a frame
// if a 60 Hz period elapsed since the last tick.
func (r *Runner) Step() error {
	r.start()
	if err := r.execute(); err != nil {
		return err
	}

	ticks := 0
	now := r.clock.Now()
	for now.Sub(r.lastTick) >= internal.TimerPeriod {
		if ticks == maxCatchUp {
			r.lastTick = now
			break
		}
		r.vm.TickTimers()
		r.lastTick = r.lastTick.Add(internal.TimerPeriod)
		ticks++
	}
	if ticks > 0 {
		r.refresh()
	}
	return nil
}

// Frame executes the instructions of one 60 Hz frame, ticks the timers once
// and presents the result. It is used by frontends that own the main loop and
// call back once per frame.
func (r *Runner) Frame() error {
	r.start()
	r.swapProgram()
	for i := 0; i < r.InstructionsPerFrame(); i++ {
		if err := r.execute(); err != nil {
			r.stopBeep()
			return err
		}
	}
	r.vm.TickTimers()
	r.lastTick = r.clock.Now()
	r.refresh()
	return nil
}

// Load replaces the program of the VM and restarts it. When the program does
// not fit, the error is returned and the current program keeps running.
func (r *Runner) Load(name string, data []byte) error {
	if err := r.vm.LoadProgram(data); err != nil {
		r.logger.Warn("Loading program failed", log.String("name", name), log.Err(err))
		return err
	}
	r.vm.Reset()
	r.lastTick = r.clock.Now()
	r.stopBeep()
	r.refresh()

	r.logger.Info("Loaded program", log.String("name", name), log.Int("size", len(data)))
	return nil
}

func (r *Runner) swapProgram() {
	source, ok := r.frontend.(ProgramSource)
	if !ok {
		return
	}
	if name, data, ok := source.NextProgram(); ok {
		_ = r.Load(name, data)
	}
}

// InstructionsPerFrame returns how many instructions run per timer tick.
func (r *Runner) InstructionsPerFrame() int {
	n := int(internal.TimerPeriod / r.period)
	if n < 1 {
		return 1
	}
	return n
}

func (r *Runner) start() {
	if r.started {
		return
	}
	r.started = true
	r.lastTick = r.clock.Now()
}

// execute runs the instruction at the program counter, logging it when
// tracing and logging the failure context on error.
func (r *Runner) execute() error {
	pc := r.vm.PC()
	word, err := r.vm.Fetch()
	if err != nil {
		r.logger.Error("Fetching instruction failed", log.Hex("pc", pc), log.Err(err))
		return err
	}

	if r.trace {
		r.logger.Debug("Executing",
			log.Hex("pc", pc),
			log.Hex("word", word),
			log.String("instruction", disasm.Format(word)),
		)
	}

	if err := r.vm.DecodeExecute(word); err != nil {
		r.logger.Error("Executing instruction failed",
			log.Hex("pc", pc),
			log.Hex("word", word),
			log.String("instruction", disasm.Format(word)),
			log.Err(err),
		)
		return err
	}
	return nil
}

// refresh forwards sound and display changes to the frontend.
func (r *Runner) refresh() {
	if active := r.vm.SoundActive(); active != r.beeping {
		r.beeping = active
		r.frontend.Beep(active)
	}
	if r.vm.DisplayDirty() {
		r.frontend.Present(r.vm.Display())
		r.vm.ClearDisplayDirty()
	}
}

func (r *Runner) stopBeep() {
	if r.beeping {
		r.beeping = false
		r.frontend.Beep(false)
	}
}
