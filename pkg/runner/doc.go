/*
Package runner implements a fixed-timestep execution loop for driving a state
machine in real time.

It bridges wall-clock time and the machine's update contract: each frame it
drains queued events, runs zero or more fixed updates from an accumulator, and
finishes with one variable-rate update. Events may be queued from any
goroutine; everything else belongs to the goroutine driving the loop.

# Key Components

  - Loop: The frame scheduler. Tick advances one frame deterministically,
    Run paces frames with a ticker until the driver halts.
  - Driver: The surface the loop drives. A machinae.Machine satisfies it.
  - Frame: Per-frame timing handed to the context factory.

# Usage

	m := machinae.New[*World, Input](&Menu{})
	loop := runner.New[*World, Input](m, func(f runner.Frame) *World {
		return &World{Delta: f.Delta}
	})

	if err := loop.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
