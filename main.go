package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCommand = &cobra.Command{
	Use:           "l65png",
	Short:         "Extract palette indices from 8-bit indexed PNG images",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(logLevel)
	},
}

var (
	logLevel        string
	verifyCRC       bool
	strictInterlace bool
)

func init() {
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCommand.PersistentFlags().BoolVar(&verifyCRC, "verify-crc", false, "reject chunks whose CRC-32 does not match")
	rootCommand.PersistentFlags().BoolVar(&strictInterlace, "strict-interlace", false, "reject interlaced images instead of reading them as sequential rows")

	var dump bool
	decodeCommand := &cobra.Command{
		Use:   "decode <file.png>...",
		Short: "Decode PNG files and print their dimensions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush()

			failed := 0
			for _, path := range args {
				pb, err := DecodeWithOptions(path, decodeOptions())
				if err != nil {
					log.Error().Err(err).Str("file", path).Msg("could not decode image")
					failed++
					continue
				}
				log.Debug().Str("file", path).Int("width", pb.Width).Int("height", pb.Height).Msg("decoded")
				if err := printPixelBuffer(out, pb, dump); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed to decode", failed, len(args))
			}
			return nil
		},
	}
	decodeCommand.Flags().BoolVar(&dump, "dump", false, "also print the indices, one row per line")
	rootCommand.AddCommand(decodeCommand)

	var packOutput string
	packCommand := &cobra.Command{
		Use:   "pack <file.png>",
		Short: "Decode a PNG and store its indices as an .l65i blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inPath := args[0]
			outPath := packOutput
			if outPath == "" {
				outPath = strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".l65i"
			}

			pb, err := DecodeWithOptions(inPath, decodeOptions())
			if err != nil {
				return err
			}
			enc, err := EncodeBlob(pb)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, enc, 0o644); err != nil {
				return err
			}
			log.Info().Str("file", inPath).Str("output", outPath).Int("size", len(enc)).Msg("packed")
			return nil
		},
	}
	packCommand.Flags().StringVarP(&packOutput, "output", "o", "", "output path (default: input with .l65i extension)")
	rootCommand.AddCommand(packCommand)

	var unpackDump bool
	unpackCommand := &cobra.Command{
		Use:   "unpack <file.l65i>",
		Short: "Print the contents of an .l65i blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			pb, err := DecodeBlob(args[0], data)
			if err != nil {
				return err
			}
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush()
			return printPixelBuffer(out, pb, unpackDump)
		},
	}
	unpackCommand.Flags().BoolVar(&unpackDump, "dump", false, "also print the indices, one row per line")
	rootCommand.AddCommand(unpackCommand)

	var bin2cOutput string
	bin2cCommand := &cobra.Command{
		Use:   "bin2c <file>...",
		Short: "Write files as C byte arrays",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var w io.Writer = cmd.OutOrStdout()
			if bin2cOutput != "" {
				f, err := os.Create(bin2cOutput)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			out := bufio.NewWriter(w)

			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if err := WriteCArray(out, cIdentifier(path), data); err != nil {
					return err
				}
				log.Debug().Str("file", path).Int("size", len(data)).Msg("embedded")
			}
			return out.Flush()
		},
	}
	bin2cCommand.Flags().StringVarP(&bin2cOutput, "output", "o", "", "output path (default: stdout)")
	rootCommand.AddCommand(bin2cCommand)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	return nil
}

func decodeOptions() DecodeOptions {
	return DecodeOptions{
		VerifyChecksums:  verifyCRC,
		RejectInterlaced: strictInterlace,
	}
}

func printPixelBuffer(w io.Writer, pb *PixelBuffer, dump bool) error {
	if _, err := fmt.Fprintf(w, "%s %d %d\n", pb.Filename, pb.Width, pb.Height); err != nil {
		return err
	}
	if !dump {
		return nil
	}
	for y := 0; y < pb.Height; y++ {
		row := pb.Indices[y*pb.Width : (y+1)*pb.Width]
		if _, err := fmt.Fprintf(w, "% x\n", row); err != nil {
			return err
		}
	}
	return nil
}
