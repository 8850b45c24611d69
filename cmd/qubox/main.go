package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/massn/envordot"
	"github.com/oklog/run"

	"github.com/qubox-team/qubox-engine/simcore/common"
	"github.com/qubox-team/qubox-engine/simcore/core"
	"github.com/qubox-team/qubox-engine/simcore/qasm"
	"github.com/qubox-team/qubox-engine/simcore/sampling"
	"github.com/qubox-team/qubox-engine/simcore/sim"

	"github.com/go-openapi/strfmt"
	"go.uber.org/dig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	rotate "github.com/lestrrat-go/file-rotatelogs"
)

var versionByBuildFlag string
var parser *flags.Parser
var app *Qubox

func init() {
	if err := envordot.Load(false, ".env"); err != nil {
		fmt.Printf("Not found \".env\" file. Use only environment variables. Reason:%s\n", err.Error())
	} else {
		fmt.Println("Found \".env\" file. Environment variables are preferred, " +
			"but non-conflicting variables are those in the \".env\" file.")
	}
	app = &Qubox{}
	setParser(app)
}

type Qubox struct {
	Conf *core.Conf
}

func setParser(app *Qubox) {
	parser = flags.NewParser(app, flags.Default)
	parser.ShortDescription = "qubox simulator"
	parser.LongDescription = "the state-vector simulation core of the Qubox circuit editor."
	parser.AddCommand("run", "run a circuit", "evaluate an OpenQASM 2.0 file and report the result", newRunCmd())
}

func parse() {
	if _, err := parser.Parse(); err != nil {
		code := 1
		if fe, ok := err.(*flags.Error); ok {
			if fe.Type == flags.ErrHelp {
				code = 0
			}
		}
		if code == 1 {
			fmt.Printf("failed to parse flags, because %s\n", err)
		}
		os.Exit(code)
	}
}

func (q *Qubox) provideDIContainer() (*dig.Container, error) {
	c := dig.New()
	if err := c.Provide(func() core.Evaluator { return sim.NewEngine() }); err != nil {
		return &dig.Container{}, err
	}
	seed := q.Conf.Seed
	if seed == 0 {
		seed = core.GetGlobalSetting().Sampling.Seed
	}
	if err := c.Provide(func(ev core.Evaluator) core.Sampler {
		return sampling.NewSampler(ev, seed)
	}); err != nil {
		return &dig.Container{}, err
	}
	return c, nil
}

func zapLogger(conf *core.Conf) (*zap.Logger, error) {
	var encoder zapcore.Encoder
	if conf.DevMode {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		c := zap.NewProductionEncoderConfig()
		c.EncodeTime = zapcore.ISO8601TimeEncoder
		c.TimeKey = "timestamp"
		encoder = zapcore.NewJSONEncoder(c)
	}
	var level zap.AtomicLevel
	switch conf.LogLevel {
	case "debug":
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cores := []zapcore.Core{}
	if conf.EnableFileLog {
		rotater, err := makeRotator(conf.LogDir, conf.LogRotationMaxDays)
		if err != nil {
			return &zap.Logger{}, err
		}
		syncer := zapcore.AddSync(rotater)
		rotateCore := zapcore.NewCore(
			encoder,
			syncer,
			level)
		cores = append(cores, rotateCore)
	}
	if !conf.DisableStdoutLog {
		debugCore := zapcore.NewCore(
			encoder,
			zapcore.Lock(os.Stderr),
			level)
		cores = append(cores, debugCore)
	}
	zc := zapcore.NewTee(cores...)
	return zap.New(zc, zap.AddCaller()), nil
}

func makeRotator(dirPath string, rotationMaxDays int) (*rotate.RotateLogs, error) {
	if _, err := os.Stat(dirPath); err != nil {
		return &rotate.RotateLogs{}, fmt.Errorf("directory:%s is not found", dirPath)
	}
	if err := common.IsDirWritable(dirPath); err != nil {
		return &rotate.RotateLogs{}, fmt.Errorf("%s is not a writable directory", dirPath)
	}
	rotator, err := rotate.New(
		filepath.Join(dirPath, "qubox-%Y-%m-%d.log"),
		rotate.WithMaxAge(time.Duration(rotationMaxDays)*24*time.Hour),
		rotate.WithRotationTime(time.Hour))
	if err != nil {
		return &rotate.RotateLogs{}, err
	}
	return rotator, nil
}

func setZap(conf *core.Conf) *zap.Logger {
	logger, err := zapLogger(conf)
	if err != nil {
		fmt.Printf("Failed to setup logger. Reason:%s\n", err)
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	zap.L().Info("Starting logger")
	zap.L().Info(fmt.Sprintf("DevMode is %t", conf.DevMode))
	return logger
}

func main() {
	parse()
}

type runCmd struct {
	Shots int `long:"shots" default:"0" description:"number of measurement shots to draw"`
	Qubit int `long:"qubit" default:"0" description:"qubit index to sample"`
	Args  struct {
		QASMFile string `positional-arg-name:"qasm-file" required:"yes" description:"OpenQASM 2.0 file"`
	} `positional-args:"yes"`
}

func newRunCmd() *runCmd {
	return &runCmd{}
}

func (c *runCmd) Execute(args []string) error {
	logger := setZap(app.Conf)
	defer logger.Sync()

	if versionByBuildFlag != "" {
		app.Conf.Version = versionByBuildFlag
	}
	core.SetInfo(app.Conf)

	core.ResetSetting()
	if _, err := os.Stat(app.Conf.SettingPath); err == nil {
		if err := core.ParseSettingFromPath(app.Conf.SettingPath); err != nil {
			zap.L().Error(fmt.Sprintf("failed to parse settings/reason:%s", err))
			return err
		}
	} else {
		zap.L().Debug(fmt.Sprintf("no setting file at %s, using defaults", app.Conf.SettingPath))
	}

	con, err := app.provideDIContainer()
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to build DI container/reason:%s", err))
		return err
	}
	s := core.NewSystemComponents(con)
	core.SetSystemComponents(s)
	defer s.TearDown()

	ctx, cancel := context.WithCancel(context.Background())
	g := &run.Group{}
	g.Add(run.SignalHandler(ctx, os.Interrupt))
	g.Add(func() error {
		defer cancel()
		return c.executeRun(s)
	}, func(error) {
		cancel()
	})
	if err := g.Run(); err != nil {
		if _, ok := err.(run.SignalError); ok {
			zap.L().Info("interrupted")
			return nil
		}
		return err
	}
	return nil
}

func (c *runCmd) executeRun(s *core.SystemComponents) error {
	text, err := common.ReadFile(c.Args.QASMFile)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read %s/reason:%s", c.Args.QASMFile, err))
		return err
	}

	rd := core.NewRunData()
	rd.QASM = text
	rd.Shots = c.Shots
	rd.Qubit = c.Qubit
	rd.Status = core.RUNNING
	started := time.Now()

	err = s.Invoke(func(ev core.Evaluator, sp core.Sampler) error {
		codec := qasm.NewCodec(sp)
		if app.Conf.MacroPath != "" {
			if _, statErr := os.Stat(app.Conf.MacroPath); statErr == nil {
				table, err := core.NewMacroStore(app.Conf.MacroPath).Load()
				if err != nil {
					return err
				}
				codec.Predefine(table)
			}
		}
		circ, err := codec.FromQASM(text)
		if err != nil {
			return err
		}
		if max := core.GetGlobalSetting().Sim.MaxQubits; circ.NumQubits > max {
			return fmt.Errorf("too many qubits in your circuit (%d). We only simulate %d qubits",
				circ.NumQubits, max)
		}

		state, err := ev.Evaluate(circ)
		if err != nil {
			return err
		}
		dist, err := sp.ProbabilityDistribution(circ)
		if err != nil {
			return err
		}
		rd.Result.Distribution = dist
		if c.Shots > 0 {
			counts, err := sp.SampleCounts(circ, c.Qubit, c.Shots)
			if err != nil {
				return err
			}
			rd.Result.Counts = counts
		}
		rd.Result.Measurements = circ.MeasurementResults()

		fmt.Println(state.JSONString())
		if app.Conf.MacroPath != "" && len(circ.CustomGates) > 0 {
			if err := core.NewMacroStore(app.Conf.MacroPath).Save(circ.CustomGates); err != nil {
				return err
			}
		}
		return nil
	})
	rd.Ended = strfmt.DateTime(time.Now())
	rd.Result.ExecutionTime = time.Since(started)
	if err != nil {
		rd.Status = core.FAILED
		rd.Result.Message = err.Error()
		zap.L().Error(fmt.Sprintf("run(%s) failed/reason:%s", rd.ID, err))
		return err
	}
	rd.Status = core.SUCCEEDED
	fmt.Println(rd.Result.ToString())
	zap.L().Info(fmt.Sprintf("run(%s) finished/status:%s", rd.ID, rd.Status))
	return nil
}
