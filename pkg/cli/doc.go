/*
Package cli provides command-line interface utilities for the rsql command.

Output Formatting:

A parsed query can be written in several formats (text, keywords, json,
tree, csv):

	format, err := cli.ParseOutputFormat(flagFormat)
	if err != nil {
		return err
	}
	node, err := p.Parse(query)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, node)

Progress Reporting:

Checking a large batch of queries can report progress on stderr:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(int64(len(queries)))
	for i, q := range queries {
		if _, err := p.Parse(q); err != nil {
			invalid++
		}
		progress.Update(int64(i+1), invalid)
	}
	progress.Finish()

Exit Codes:

Commands return an ExitError to choose the process exit code; main calls
ExitCode on the error returned by the root command.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
