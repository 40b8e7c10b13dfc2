/*
Package runner drives a whole episode of the errand engine against a simulator.

It is the bridge between the stateless engine and the outside world: it resets the
simulator, feeds every observation to the engine, sends the returned command back and
persists the episode state after every step when a store is configured.

# Key Components

  - Runner: the episode loop.
  - TextSimulator: a simulator spoken to in plain text (a human at a terminal or a piped process).
  - JSONSimulator: a simulator spoken to in NDJSON.
  - CommandInterceptor: middleware that inspects each command before it is sent.

# Usage

	r := runner.NewRunner(
		runner.WithEngine(errand.New()),
		runner.WithStore(file.New("")),
	)

	res, err := r.Run(ctx, runner.NewTextSimulator(os.Stdin, os.Stdout), task)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Outcome)
*/
package runner
