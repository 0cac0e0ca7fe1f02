package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/akmonengine/impact"
	"github.com/akmonengine/impact/scenario"
)

func main() {
	var (
		path    = flag.String("scenario", "", "YAML scenario file (defaults to a built-in scenario)")
		builtin = flag.String("builtin", "default", "built-in scenario: default or grid")
		gridN   = flag.Int("grid", 4, "grid size for the grid scenario")
		frames  = flag.Int("frames", 120, "number of frames to simulate")
		hz      = flag.Float64("hz", 60, "simulation frequency")
		verbose = flag.Bool("v", false, "log every frame")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, *path, *builtin, *gridN, *frames, 1.0 / *hz); err != nil {
		logger.Error("simulation failed", "err", err)
		os.Exit(1)
	}
}

func loadScenario(path, builtin string, gridN int) (*scenario.Document, error) {
	if path != "" {
		return scenario.Load(path)
	}

	switch builtin {
	case "default":
		return scenario.Default(), nil
	case "grid":
		return scenario.Grid(gridN), nil
	}
	return nil, fmt.Errorf("unknown built-in scenario %q", builtin)
}

func run(logger *slog.Logger, path, builtin string, gridN, frames int, dt float64) error {
	doc, err := loadScenario(path, builtin, gridN)
	if err != nil {
		return err
	}

	scene, err := doc.NewScene()
	if err != nil {
		return err
	}
	scene.Logger = logger

	scene.Events.Subscribe(impact.COLLISION_ENTER, func(event impact.Event) {
		enter := event.(impact.CollisionEnterEvent)
		logger.Debug("collision",
			"toi", enter.Contact.TimeOfImpact,
			"normal", enter.Contact.Normal,
			"separation", enter.Contact.SeparationDistance,
		)
	})

	if err := scene.Initialize(); err != nil {
		return err
	}

	for frame := 0; frame < frames; frame++ {
		scene.Update(dt)
	}

	for i, state := range scene.Snapshot() {
		name := fmt.Sprintf("#%d", i)
		if i < len(doc.Bodies) && doc.Bodies[i].Name != "" {
			name = doc.Bodies[i].Name
		}
		logger.Info("body",
			"name", name,
			"shape", state.Shape.Type(),
			"position", state.Position,
			"orientation", state.Orientation,
			"velocity", state.Velocity,
		)
	}

	return nil
}
