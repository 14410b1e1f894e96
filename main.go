// Command etiqueta renders a .etiqueta label definition to a PNG,
// optionally binding a JSON data object for ${path} interpolation and
// when/each composition.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/EskenderDev/etiqueta/dsl"
	canvasbackend "github.com/EskenderDev/etiqueta/render/canvas"
	"github.com/EskenderDev/etiqueta/symbology"
)

func main() {
	input := flag.String("in", "examples/tag.etiqueta", "label definition path")
	output := flag.String("out", "output/tag.png", "PNG output path")
	dataJSON := flag.String("data", "", "JSON data bound to the label")
	flag.Parse()

	var data any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &data); err != nil {
			log.Fatalf("parse data JSON: %v", err)
		}
	}

	if err := run(*input, *output, data); err != nil {
		log.Fatalf("generate label: %v", err)
	}
	fmt.Printf("wrote %s\n", *output)
}

// run chains parsing, building and rendering.
func run(inputPath, outputPath string, data any) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open label definition %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("parse label definition: %w", err)
	}

	baseDir := filepath.Dir(inputPath)
	backend := canvasbackend.New(canvasbackend.Options{BaseDir: baseDir})
	l, err := dsl.Build(doc, dsl.BuildOptions{
		Backend:   backend,
		Encoder:   symbology.Encoder{},
		Data:      data,
		LoadImage: imageLoader(baseDir),
	})
	if err != nil {
		return fmt.Errorf("build label: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	return l.Render(backend, data, func(img image.Image) error {
		out, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outputPath, err)
		}
		defer out.Close()
		if err := png.Encode(out, img); err != nil {
			return fmt.Errorf("encode PNG: %w", err)
		}
		return nil
	})
}

// imageLoader decodes bitmaps referenced by image commands, resolving
// relative paths against the label definition's directory.
func imageLoader(baseDir string) func(src string) (image.Image, error) {
	return func(src string) (image.Image, error) {
		path := src
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		img, _, err := image.Decode(file)
		if err != nil {
			return nil, fmt.Errorf("decode image %s: %w", src, err)
		}
		return img, nil
	}
}
