// texblock - GPU texture block decompressor
//
// Decodes BC1-BC5, BC7, ETC1, ETC2 and EAC block data into plain pixel
// buffers and writes them as PNG. Reads DDS, PKM and zstd-framed .ztex files.
//
// Usage:
//   texblock decode input.dds output.png    # Blocks → PNG
//   texblock info input.pkm                 # Show container info
//   texblock batch dir/ out/                # Decode a whole tree
//   texblock pack input.dds output.ztex     # Store blocks with zstd
//   texblock unpack input.ztex output.dds   # Restore a DDS or PKM
//   texblock formats                        # List decoders
//   texblock serve                          # HTTP decode service
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/EchoTools/texblock/internal/config"
	"github.com/EchoTools/texblock/pkg/decompress"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("texblock - GPU texture block decompressor")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  texblock [flags] decode [-slice n] <input> <output.png>")
	fmt.Println("  texblock [flags] info [-dump] <input>")
	fmt.Println("  texblock [flags] batch <dir> <out>")
	fmt.Println("  texblock [flags] pack [-level n] <input.{dds,pkm}> <output.ztex>")
	fmt.Println("  texblock [flags] unpack <input.ztex> <output.{dds,pkm}>")
	fmt.Println("  texblock [flags] formats")
	fmt.Println("  texblock [flags] serve [-listen addr]")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -config path   YAML config (default texblock.yaml if present)")
	fmt.Println("  -workers n     Parallel workers, 0 for one per CPU")
	fmt.Println("  -serial        Decode on the calling goroutine only")
	fmt.Println("  -strict        Fail on malformed blocks")
	fmt.Println("  -v             Debug logging")
	fmt.Println()
	fmt.Println("Inputs: .dds, .pkm, .ztex")
}

func usageError(usage string) error {
	return fmt.Errorf("usage: texblock %s", usage)
}

func run(args []string) error {
	fs := flag.NewFlagSet("texblock", flag.ContinueOnError)
	fs.Usage = printUsage
	configPath := fs.String("config", "", "Path to YAML config")
	workers := fs.Int("workers", -1, "Parallel workers, 0 for one per CPU")
	serial := fs.Bool("serial", false, "Decode serially")
	strict := fs.Bool("strict", false, "Fail on malformed blocks")
	verbose := fs.Bool("v", false, "Debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		printUsage()
		return errors.New("no command given")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}
	if *strict {
		cfg.Strict = true
	}
	if *verbose {
		cfg.LogLevel = logrus.DebugLevel.String()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a := newApp(cfg, *serial)
	command, rest := fs.Arg(0), fs.Args()[1:]

	switch command {
	case "decode":
		return a.cmdDecode(rest)
	case "info":
		return a.cmdInfo(rest)
	case "batch":
		return a.cmdBatch(rest)
	case "pack":
		return a.cmdPack(rest)
	case "unpack":
		return a.cmdUnpack(rest)
	case "formats":
		return a.cmdFormats(rest)
	case "serve":
		return a.cmdServe(rest)
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// app carries the state shared by every command.
type app struct {
	cfg    *config.Config
	log    *logrus.Logger
	serial bool
	sched  decompress.Scheduler
}

func newApp(cfg *config.Config, serial bool) *app {
	a := &app{
		cfg:    cfg,
		log:    cfg.Logger(os.Stderr),
		serial: serial,
	}
	if !serial {
		a.sched = decompress.NewPool(cfg.Workers)
	}
	return a
}
