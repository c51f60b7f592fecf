package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/davecgh/go-spew/spew"

	"github.com/EchoTools/texblock/pkg/archive"
	"github.com/EchoTools/texblock/pkg/blockcodec"
	"github.com/EchoTools/texblock/pkg/decompress"
	"github.com/EchoTools/texblock/pkg/server"
	"github.com/EchoTools/texblock/pkg/texture"
)

// containerExts lists the inputs loadImage understands.
var containerExts = map[string]bool{".dds": true, ".pkm": true, ".ztex": true}

// loadImage reads a container file, picking the parser by extension.
func loadImage(path string) (*texture.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var img *texture.Image
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".dds":
		img, err = texture.ReadDDS(f)
	case ".pkm":
		img, err = texture.ReadPKM(f)
	case ".ztex":
		img, err = archive.DecodeImage(f)
	default:
		return nil, fmt.Errorf("unsupported container %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return img, nil
}

// decompress decodes img with the configured driver.
func (a *app) decompress(path string, img *texture.Image) (*decompress.Result, error) {
	opts := a.cfg.DecompressOptions(a.log.WithField("path", path))
	if a.serial {
		return decompress.Decompress(img, opts...)
	}
	return decompress.DecompressParallel(img, a.sched, opts...)
}

// writePNG writes one slice of a decoded image.
func writePNG(path string, img *texture.Image, slice int) error {
	out, err := img.ToImage(slice)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

// decodeFile decodes a container into one PNG per written slice. A negative
// slice writes every slice, suffixing the output name with the slice index
// when there is more than one.
func (a *app) decodeFile(inputPath, outputPath string, slice int) (*decompress.Result, error) {
	img, err := loadImage(inputPath)
	if err != nil {
		return nil, err
	}

	res, err := a.decompress(inputPath, img)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}

	if slice >= 0 {
		return res, writePNG(outputPath, res.Image, slice)
	}
	if res.Image.Slices == 1 {
		return res, writePNG(outputPath, res.Image, 0)
	}
	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	for s := 0; s < res.Image.Slices; s++ {
		if err := writePNG(fmt.Sprintf("%s_%d.png", base, s), res.Image, s); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (a *app) cmdDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	slice := fs.Int("slice", 0, "Slice to write, -1 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return usageError("decode [-slice n] <input> <output.png>")
	}

	res, err := a.decodeFile(fs.Arg(0), fs.Arg(1), *slice)
	if err != nil {
		return err
	}
	fmt.Printf("Decoded %s → %s (%s %dx%d)\n", fs.Arg(0), fs.Arg(1),
		res.Image.Format, res.Image.Width, res.Image.Height)
	if res.InvalidBlocks > 0 {
		fmt.Printf("Warning: %d malformed blocks\n", res.InvalidBlocks)
	}
	return nil
}

func describeDecoder(f texture.Format) string {
	if !f.IsCompressed() {
		return "passthrough"
	}
	d, err := blockcodec.Lookup(f)
	if err != nil {
		return "none"
	}
	return fmt.Sprintf("%s → %s", d.Format, d.Dest)
}

func (a *app) cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	dump := fs.Bool("dump", false, "Dump raw headers")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageError("info [-dump] <input>")
	}
	inputPath := fs.Arg(0)

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var (
		container string
		width     int
		height    int
		depth     = 1
		slices    = 1
		mips      = 1
		format    texture.Format
		headers   []interface{}
		extra     []string
	)

	switch ext := strings.ToLower(filepath.Ext(inputPath)); ext {
	case ".dds":
		info, err := texture.ParseDDS(f)
		if err != nil {
			return fmt.Errorf("parse header: %w", err)
		}
		container = "DDS"
		width, height, depth, slices, mips = info.Width, info.Height, info.Depth, info.Slices, info.MipLevels
		format = info.Format
		headers = append(headers, info.Header)
		if info.DX10 != nil {
			headers = append(headers, *info.DX10)
		}
	case ".pkm":
		h, err := texture.ParsePKM(f)
		if err != nil {
			return fmt.Errorf("parse header: %w", err)
		}
		container = fmt.Sprintf("PKM v%d", h.Version)
		width, height = h.Width, h.Height
		format = h.Format
		headers = append(headers, *h)
	case ".ztex":
		r, err := archive.NewReader(f)
		if err != nil {
			return err
		}
		defer r.Close()
		h := r.Header()
		container = "ZTEX"
		width, height, depth, slices = int(h.Width), int(h.Height), int(h.Depth), int(h.Slices)
		format = h.Format
		headers = append(headers, *h)
		extra = append(extra, fmt.Sprintf("Compressed: %d → %d bytes (%.1f%%)", h.Length, h.CompressedLength,
			100*float64(h.CompressedLength)/float64(h.Length)))
	default:
		return fmt.Errorf("unsupported container %q", ext)
	}

	size, err := texture.ImageSize(width, height, depth, slices, format)
	if err != nil {
		return err
	}

	fmt.Printf("File: %s\n", inputPath)
	fmt.Printf("Container: %s\n", container)
	fmt.Printf("Dimensions: %dx%d\n", width, height)
	fmt.Printf("Depth: %d\n", depth)
	fmt.Printf("Slices: %d\n", slices)
	fmt.Printf("Mip levels: %d\n", mips)
	fmt.Printf("Format: %s (DXGI %d)\n", format, format.DXGI())
	fmt.Printf("Top level size: %d bytes (%.2f KB)\n", size, float64(size)/1024)
	fmt.Printf("Decoder: %s\n", describeDecoder(format))
	for _, line := range extra {
		fmt.Println(line)
	}

	if *dump {
		for _, h := range headers {
			spew.Dump(h)
		}
	}
	return nil
}

// batchDecode walks inputDir and decodes every container into outputDir,
// keeping the relative layout. It returns the converted and failed counts.
func (a *app) batchDecode(inputDir, outputDir string) (count, failed int, err error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, 0, fmt.Errorf("create output dir: %w", err)
	}

	err = filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !containerExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		relPath, _ := filepath.Rel(inputDir, path)
		outPath := filepath.Join(outputDir, strings.TrimSuffix(relPath, filepath.Ext(relPath))+".png")

		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			a.log.WithField("path", outPath).WithError(err).Error("mkdir failed")
			failed++
			return nil
		}

		if _, err := a.decodeFile(path, outPath, -1); err != nil {
			a.log.WithField("path", path).WithError(err).Error("decode failed")
			failed++
			return nil
		}

		count++
		if count%100 == 0 {
			fmt.Printf("Processed %d files...\n", count)
		}
		return nil
	})
	return count, failed, err
}

func (a *app) cmdBatch(args []string) error {
	if len(args) != 2 {
		return usageError("batch <dir> <out>")
	}
	count, failed, err := a.batchDecode(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("\nCompleted: %d files decoded, %d errors\n", count, failed)
	return nil
}

func (a *app) cmdPack(args []string) error {
	fs := flag.NewFlagSet("pack", flag.ContinueOnError)
	level := fs.Int("level", a.cfg.CompressionLevel, "zstd compression level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return usageError("pack [-level n] <input.{dds,pkm}> <output.ztex>")
	}

	img, err := loadImage(fs.Arg(0))
	if err != nil {
		return err
	}
	if err := packFile(fs.Arg(1), img, *level); err != nil {
		return err
	}

	st, err := os.Stat(fs.Arg(1))
	if err != nil {
		return err
	}
	fmt.Printf("Packed %s → %s (%d → %d bytes)\n", fs.Arg(0), fs.Arg(1), len(img.Data), st.Size())
	return nil
}

func packFile(path string, img *texture.Image, level int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := archive.EncodeImage(f, img, archive.WithCompressionLevel(level)); err != nil {
		f.Close()
		return fmt.Errorf("pack: %w", err)
	}
	return f.Close()
}

// unpackFile restores a .ztex archive as DDS or PKM, chosen by extension.
func unpackFile(inputPath, outputPath string) (*texture.Image, error) {
	img, err := loadImage(inputPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(outputPath)); ext {
	case ".dds":
		err = texture.EncodeDDS(f, img)
	case ".pkm":
		var header []byte
		if img.Slices != 1 || img.Depth != 1 {
			return nil, fmt.Errorf("PKM holds a single 2D slice, got %d slices", img.Slices)
		}
		if header, err = texture.EncodePKMHeader(img); err == nil {
			if _, err = f.Write(header); err == nil {
				_, err = f.Write(img.Data)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported output container %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", outputPath, err)
	}
	return img, f.Close()
}

func (a *app) cmdUnpack(args []string) error {
	if len(args) != 2 {
		return usageError("unpack <input.ztex> <output.{dds,pkm}>")
	}
	img, err := unpackFile(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("Unpacked %s → %s (%s %dx%d)\n", args[0], args[1], img.Format, img.Width, img.Height)
	return nil
}

func (a *app) cmdFormats(args []string) error {
	if len(args) != 0 {
		return usageError("formats")
	}
	fmt.Println("Supported formats:")
	for _, f := range blockcodec.Supported() {
		d, err := blockcodec.Lookup(f)
		if err != nil {
			return err
		}
		fmt.Printf("  %-16s → %-12s %dx%d, %2d bytes/block\n",
			d.Format, d.Dest, d.BlockWidth, d.BlockHeight, d.SrcBlockSize)
	}
	return nil
}

func (a *app) cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	listen := fs.String("listen", a.cfg.Server.Listen, "Listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sched := a.sched
	if sched == nil {
		sched = decompress.Serial{}
	}
	srv := server.New(
		server.WithLogger(a.log),
		server.WithScheduler(sched),
		server.WithDecompressOptions(a.cfg.DecompressOptions(a.log)...),
		server.WithMaxBodyBytes(a.cfg.Server.MaxBodyBytes),
	)
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, *listen)
}
