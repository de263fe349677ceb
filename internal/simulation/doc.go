// Package simulation runs the two-type Schelling segregation model on a
// padded grid.
//
// The model has three stages composed in sequence:
//
//   - Initialize places a fixed number of TypeA and TypeB agents at random
//     interior positions.
//   - ContentScore measures how many of an agent's occupied neighbors share
//     its type.
//   - Step gathers every agent scoring below the threshold and shuffles their
//     values among those same positions.
//
// Run drives Params.Rounds steps and reports per-round statistics. All
// randomness comes from an explicit *rand.Rand so a fixed seed reproduces a
// run exactly.
//
// Usage:
//
//	rng := simulation.NewRand(42)
//	res, err := simulation.Run(ctx, simulation.DefaultParams(), rng, nil)
//	if err != nil {
//	    return err
//	}
//	grid.Render(os.Stdout, res.Final)
package simulation
