// Command framesig embeds, extracts, and verifies invisible video
// watermarks using ffmpeg for frame transport.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/framesig/framesig"
	"github.com/framesig/framesig/ffmpeg"
	"github.com/framesig/framesig/payload"
)

const usage = `Usage: framesig <command> [flags]

Commands:
  embed    embed a provenance payload into a video
  extract  recover an embedded payload from a video
  verify   check a video against an expected payload
  probe    print video metadata

Run 'framesig <command> --help' for command flags.`

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd := os.Args[1]; cmd {
	case "embed":
		err = runEmbed(log, os.Args[2:])
	case "extract":
		err = runExtract(log, os.Args[2:])
	case "verify":
		err = runVerify(log, os.Args[2:])
	case "probe":
		err = runProbe(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Println(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", cmd, usage)
		os.Exit(2)
	}
	if err == pflag.ErrHelp {
		return
	}
	if err != nil {
		log.Fatal(err)
	}
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

func newEngine(log *logrus.Logger, verbose bool) (*framesig.Engine, error) {
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return framesig.New(ffmpeg.New(), framesig.WithLogger(log))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseCustom splits repeated key=value flags into payload custom data.
func parseCustom(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	custom := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid custom field %q, want key=value", pair)
		}
		custom[k] = v
	}
	return custom, nil
}

// loadPayload reads a payload from a JSON file, or builds it from the
// identity flags when no file is given.
func loadPayload(file, videoID, userID, txHash string, custom []string) (payload.Payload, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return payload.Payload{}, err
		}
		var p payload.Payload
		if err := json.Unmarshal(data, &p); err != nil {
			return payload.Payload{}, fmt.Errorf("parse payload file: %w", err)
		}
		return p, nil
	}
	if videoID == "" || userID == "" {
		return payload.Payload{}, fmt.Errorf("either --payload or both --video-id and --user-id are required")
	}
	customData, err := parseCustom(custom)
	if err != nil {
		return payload.Payload{}, err
	}
	return payload.Payload{
		VideoID:          videoID,
		UserID:           userID,
		Timestamp:        time.Now().Unix(),
		BlockchainTxHash: txHash,
		CustomData:       customData,
	}, nil
}

func runEmbed(log *logrus.Logger, args []string) error {
	fs := newFlagSet("embed")
	in := fs.StringP("in", "i", "", "input video path")
	out := fs.StringP("out", "o", "", "output video path")
	key := fs.StringP("key", "k", "", "encryption key")
	payloadFile := fs.String("payload", "", "JSON file with the payload to embed")
	videoID := fs.String("video-id", "", "payload video identifier")
	userID := fs.String("user-id", "", "payload user identifier")
	txHash := fs.String("tx-hash", "", "payload blockchain transaction hash")
	custom := fs.StringArray("custom", nil, "custom payload field key=value, repeatable")
	strength := fs.Float64("strength", framesig.DefaultStrength, "embedding strength")
	interval := fs.Int("frame-interval", framesig.DefaultFrameInterval, "watermark every n-th frame")
	verbose := fs.BoolP("verbose", "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" || *key == "" {
		return fmt.Errorf("--in, --out, and --key are required")
	}

	p, err := loadPayload(*payloadFile, *videoID, *userID, *txHash, *custom)
	if err != nil {
		return err
	}
	eng, err := newEngine(log, *verbose)
	if err != nil {
		return err
	}
	res, err := eng.EmbedWatermark(context.Background(), *in, *out, p, *key,
		framesig.WithStrength(*strength), framesig.WithFrameInterval(*interval))
	if err != nil {
		return err
	}
	return printJSON(res)
}

func runExtract(log *logrus.Logger, args []string) error {
	fs := newFlagSet("extract")
	in := fs.StringP("in", "i", "", "input video path")
	key := fs.StringP("key", "k", "", "encryption key")
	payloadFile := fs.String("payload", "", "JSON file with the originally embedded payload, used to size the bitstream")
	bits := fs.Int("bits", 0, "expected bit length, overrides --payload")
	verbose := fs.BoolP("verbose", "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *key == "" {
		return fmt.Errorf("--in and --key are required")
	}

	eng, err := newEngine(log, *verbose)
	if err != nil {
		return err
	}
	bitLength := *bits
	if bitLength == 0 {
		if *payloadFile == "" {
			return fmt.Errorf("either --bits or --payload is required")
		}
		p, err := loadPayload(*payloadFile, "", "", "", nil)
		if err != nil {
			return err
		}
		bitLength, err = payload.NewCodec().BitLength(p)
		if err != nil {
			return err
		}
	}
	res, err := eng.ExtractWatermark(context.Background(), *in, *key, bitLength)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func runVerify(log *logrus.Logger, args []string) error {
	fs := newFlagSet("verify")
	in := fs.StringP("in", "i", "", "input video path")
	key := fs.StringP("key", "k", "", "encryption key")
	payloadFile := fs.String("payload", "", "JSON file with the expected payload")
	verbose := fs.BoolP("verbose", "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *key == "" || *payloadFile == "" {
		return fmt.Errorf("--in, --key, and --payload are required")
	}

	p, err := loadPayload(*payloadFile, "", "", "", nil)
	if err != nil {
		return err
	}
	eng, err := newEngine(log, *verbose)
	if err != nil {
		return err
	}
	res, err := eng.VerifyWatermark(context.Background(), *in, p, *key)
	if err != nil {
		return err
	}
	if err := printJSON(res); err != nil {
		return err
	}
	if !res.Verified {
		os.Exit(1)
	}
	return nil
}

func runProbe(args []string) error {
	fs := newFlagSet("probe")
	in := fs.StringP("in", "i", "", "input video path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		if fs.NArg() > 0 {
			*in = fs.Arg(0)
		} else {
			return fmt.Errorf("--in is required")
		}
	}

	info, err := ffmpeg.New().Probe(context.Background(), *in)
	if err != nil {
		return err
	}
	return printJSON(info)
}
