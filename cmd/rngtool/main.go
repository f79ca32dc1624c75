// Command rngtool prints the output of the xorshift64* generator used
// by citysim, for checking reproducibility across machines.
package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"citysim.app/xorshift"
)

var (
	drawFlags = flag.NewFlagSet("draw", flag.ExitOnError)
	drawSeed  = drawFlags.Uint64("seed", 111, "generator seed")
	drawN     = drawFlags.Int("n", 10, "number of values")

	snapFlags = flag.NewFlagSet("snapshot", flag.ExitOnError)
	snapSeed  = snapFlags.Uint64("seed", 111, "generator seed")
	snapSkip  = snapFlags.Int("skip", 0, "number of values to draw before the snapshot")
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "rngtool: %v\n", err)
		os.Exit(2)
	}
}

func run(stdout io.Writer, args []string) error {
	if len(args) == 0 {
		return errors.New("missing command (u64, u32, scaled, snapshot)")
	}
	cmd := args[0]
	args = args[1:]
	switch cmd {
	case "u64", "u32", "scaled":
		if err := drawFlags.Parse(args); err != nil {
			drawFlags.Usage()
		}
		return draw(stdout, cmd)
	case "snapshot":
		if err := snapFlags.Parse(args); err != nil {
			snapFlags.Usage()
		}
		return snapshot(stdout)
	default:
		return fmt.Errorf("unknown command: %q", cmd)
	}
}

func draw(stdout io.Writer, kind string) error {
	if *drawN < 0 {
		return fmt.Errorf("%s: negative count %d", kind, *drawN)
	}
	s := xorshift.New(*drawSeed)
	w := bufio.NewWriter(stdout)
	for range *drawN {
		switch kind {
		case "u64":
			fmt.Fprintf(w, "%#016x\n", s.Uint64())
		case "u32":
			fmt.Fprintf(w, "%#08x\n", s.Uint32())
		case "scaled":
			fmt.Fprintf(w, "%v\n", s.Float32())
		}
	}
	return w.Flush()
}

func snapshot(stdout io.Writer) error {
	if *snapSkip < 0 {
		return fmt.Errorf("snapshot: negative skip %d", *snapSkip)
	}
	s := xorshift.New(*snapSeed)
	for range *snapSkip {
		s.Uint64()
	}
	b, err := s.MarshalBinary()
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	_, err = fmt.Fprintln(stdout, hex.EncodeToString(b))
	return err
}
