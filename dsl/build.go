package dsl

import (
	"fmt"
	"image"
	"image/color"
	"reflect"
	"strconv"

	"github.com/EskenderDev/etiqueta/binding"
	"github.com/EskenderDev/etiqueta/label"
)

// BuildOptions carries the collaborators needed to replay a document.
type BuildOptions struct {
	Backend label.Backend
	Encoder label.Encoder
	// Data is bound as the builder context: it drives when/elsewhen
	// conditions, each iteration, and ${path} interpolation.
	Data any
	// LoadImage resolves an image command's src. Required only when
	// the document contains image commands.
	LoadImage func(src string) (image.Image, error)
}

// Build constructs a label from a parsed document.
func Build(doc *Document, opts BuildOptions) (*label.Label, error) {
	if doc == nil {
		return nil, fmt.Errorf("dsl: nil document")
	}
	b, err := label.NewBuilder(doc.Width, doc.Height, label.BuildOptions{
		Backend: opts.Backend,
		Encoder: opts.Encoder,
	})
	if err != nil {
		return nil, err
	}
	b.WithContext(opts.Data)
	st := &builderState{opts: opts}
	if err := st.block(b, doc.Block); err != nil {
		return nil, err
	}
	return b.Build()
}

type builderState struct {
	opts BuildOptions
	err  error
}

// block walks a command list. A when command opens a decision chain
// that elsewhen/otherwise continue; any other command closes it.
func (st *builderState) block(b *label.Builder, blk *Block) error {
	var chain *label.Chain
	for _, cmd := range blk.Commands {
		switch cmd.Name {
		case "when":
			cond, err := st.condition(cmd)
			if err != nil {
				return err
			}
			chain = b.If(cond, st.configure(cmd.Block))
		case "elsewhen":
			if chain == nil {
				return fmt.Errorf("dsl: %s: elsewhen without a preceding when", cmd.Pos)
			}
			cond, err := st.condition(cmd)
			if err != nil {
				return err
			}
			chain = chain.ElseIf(cond, st.configure(cmd.Block))
		case "otherwise":
			if chain == nil {
				return fmt.Errorf("dsl: %s: otherwise without a preceding when", cmd.Pos)
			}
			chain.Else(st.configure(cmd.Block))
			chain = nil
		default:
			chain = nil
			if err := st.command(b, cmd); err != nil {
				return err
			}
		}
		if st.err != nil {
			return st.err
		}
		if err := b.Err(); err != nil {
			return err
		}
	}
	return nil
}

// configure wraps a nested block as a builder callback; walk errors
// are stashed on the state since the callback cannot return them.
func (st *builderState) configure(blk *Block) func(*label.Builder) {
	return func(b *label.Builder) {
		if blk == nil {
			return
		}
		if err := st.block(b, blk); err != nil && st.err == nil {
			st.err = err
		}
	}
}

// condition builds the predicate for `when <path> <value>`: the bound
// context value at path must print equal to value.
func (st *builderState) condition(cmd *Command) (label.Condition, error) {
	pos, _, err := splitArgs(cmd, 2)
	if err != nil {
		return nil, err
	}
	path, want := pos[0].Value, pos[1].Value
	return func(ctx any) bool {
		v, ok := binding.Lookup(ctx, path)
		return ok && fmt.Sprint(v) == want
	}, nil
}

func (st *builderState) command(b *label.Builder, cmd *Command) error {
	switch cmd.Name {
	case "text":
		return st.text(b, cmd)
	case "split":
		return st.split(b, cmd)
	case "barcode":
		return st.barcode(b, cmd)
	case "image":
		return st.image(b, cmd)
	case "repeat":
		return st.repeat(b, cmd)
	case "each":
		return st.each(b, cmd)
	case "scale":
		pos, _, err := splitArgs(cmd, 1)
		if err != nil {
			return err
		}
		f, err := number(pos[0])
		if err != nil {
			return err
		}
		b.Scale(f)
		return nil
	case "fit":
		pos, _, err := splitArgs(cmd, 2)
		if err != nil {
			return err
		}
		w, err := number(pos[0])
		if err != nil {
			return err
		}
		h, err := number(pos[1])
		if err != nil {
			return err
		}
		b.ScaleToFit(w, h)
		return nil
	case "center":
		b.CenterVertically()
		return nil
	default:
		return fmt.Errorf("dsl: %s: unknown command %q", cmd.Pos, cmd.Name)
	}
}

func (st *builderState) text(b *label.Builder, cmd *Command) error {
	pos, attrs, err := splitArgs(cmd, 1)
	if err != nil {
		return err
	}
	geo, err := newGeometry(cmd, attrs)
	if err != nil {
		return err
	}
	b.AddText(label.Text{
		Value:    pos[0].Value,
		X:        geo.x,
		Y:        geo.y,
		Font:     geo.font,
		Size:     geo.size,
		Color:    geo.color,
		Rotation: geo.rotation,
	}, geo.align)
	return nil
}

func (st *builderState) split(b *label.Builder, cmd *Command) error {
	pos, attrs, err := splitArgs(cmd, 1)
	if err != nil {
		return err
	}
	geo, err := newGeometry(cmd, attrs)
	if err != nil {
		return err
	}
	maxLen := 0
	if v := attrs["max"]; v != "" {
		maxLen, err = strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("dsl: %s: invalid max %q", cmd.Pos, v)
		}
	}
	spacing := geo.size * 1.4
	if v := attrs["spacing"]; v != "" {
		spacing, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("dsl: %s: invalid spacing %q", cmd.Pos, v)
		}
	}
	b.AddSplitText(pos[0].Value, geo.x, geo.y, geo.font, geo.size, maxLen, spacing, geo.color, geo.align)
	return nil
}

func (st *builderState) barcode(b *label.Builder, cmd *Command) error {
	pos, attrs, err := splitArgs(cmd, 1)
	if err != nil {
		return err
	}
	geo, err := newGeometry(cmd, attrs)
	if err != nil {
		return err
	}
	sym, err := label.ParseSymbology(attrs["symbology"])
	if err != nil {
		return fmt.Errorf("dsl: %s: %w", cmd.Pos, err)
	}
	b.AddBarcode(label.Barcode{
		Payload:   pos[0].Value,
		Symbology: sym,
		X:         geo.x,
		Y:         geo.y,
		Width:     geo.width,
		Height:    geo.height,
		Rotation:  geo.rotation,
	}, geo.align)
	return nil
}

func (st *builderState) image(b *label.Builder, cmd *Command) error {
	pos, attrs, err := splitArgs(cmd, 1)
	if err != nil {
		return err
	}
	if st.opts.LoadImage == nil {
		return fmt.Errorf("dsl: %s: image command needs an image loader", cmd.Pos)
	}
	geo, err := newGeometry(cmd, attrs)
	if err != nil {
		return err
	}
	src := pos[0].Value
	bitmap, err := st.opts.LoadImage(src)
	if err != nil {
		return fmt.Errorf("dsl: %s: load image %q: %w", cmd.Pos, src, err)
	}
	b.AddImage(label.Image{
		Src:      src,
		Bitmap:   bitmap,
		X:        geo.x,
		Y:        geo.y,
		Width:    geo.width,
		Height:   geo.height,
		Rotation: geo.rotation,
	}, geo.align)
	return nil
}

func (st *builderState) repeat(b *label.Builder, cmd *Command) error {
	pos, _, err := splitArgs(cmd, 2)
	if err != nil {
		return err
	}
	start, err := strconv.Atoi(pos[0].Value)
	if err != nil {
		return fmt.Errorf("dsl: %s: invalid repeat start %q", cmd.Pos, pos[0].Value)
	}
	end, err := strconv.Atoi(pos[1].Value)
	if err != nil {
		return fmt.Errorf("dsl: %s: invalid repeat end %q", cmd.Pos, pos[1].Value)
	}
	b.For(start, end, func(b *label.Builder, _ int) {
		st.configure(cmd.Block)(b)
	})
	return nil
}

// each iterates a slice found at a context path, rebinding the builder
// context to the item for the duration of the nested block.
func (st *builderState) each(b *label.Builder, cmd *Command) error {
	pos, _, err := splitArgs(cmd, 1)
	if err != nil {
		return err
	}
	path := pos[0].Value
	val, ok := binding.Lookup(b.Context(), path)
	if !ok {
		return fmt.Errorf("dsl: %s: each path %q not found in data", cmd.Pos, path)
	}
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("dsl: %s: each path %q is not a sequence", cmd.Pos, path)
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	label.ForEach(b, items, func(b *label.Builder, item any) {
		outer := b.Context()
		b.WithContext(item)
		st.configure(cmd.Block)(b)
		b.WithContext(outer)
	})
	return nil
}

type geometry struct {
	x, y          float64
	width, height float64
	size          float64
	rotation      float64
	font          label.Font
	color         color.Color
	align         label.Alignment
}

// newGeometry interprets the attribute pairs shared by the element
// commands. Text size defaults to 10 units.
func newGeometry(cmd *Command, attrs map[string]string) (geometry, error) {
	geo := geometry{size: 10}
	var err error
	read := func(key string, dst *float64) {
		if err != nil {
			return
		}
		v, ok := attrs[key]
		if !ok {
			return
		}
		*dst, err = strconv.ParseFloat(v, 64)
		if err != nil {
			err = fmt.Errorf("dsl: %s: invalid %s %q", cmd.Pos, key, v)
		}
	}
	read("x", &geo.x)
	read("y", &geo.y)
	read("width", &geo.width)
	read("height", &geo.height)
	read("size", &geo.size)
	read("rotate", &geo.rotation)
	if err != nil {
		return geometry{}, err
	}
	geo.font = label.Font{Name: attrs["font"], Src: attrs["font-src"], Style: attrs["style"]}
	if v, ok := attrs["color"]; ok {
		geo.color, err = parseColor(v)
		if err != nil {
			return geometry{}, fmt.Errorf("dsl: %s: %w", cmd.Pos, err)
		}
	}
	geo.align, err = label.ParseAlignment(attrs["align"])
	if err != nil {
		return geometry{}, fmt.Errorf("dsl: %s: %w", cmd.Pos, err)
	}
	return geo, nil
}

// splitArgs takes n positional arguments and interprets the rest as
// key/value pairs with Ident keys.
func splitArgs(cmd *Command, n int) ([]*Lexeme, map[string]string, error) {
	args := cmd.Args
	if len(args) < n {
		return nil, nil, fmt.Errorf("dsl: %s: %s needs %d argument(s), got %d", cmd.Pos, cmd.Name, n, len(args))
	}
	pos := args[:n]
	rest := args[n:]
	if len(rest)%2 != 0 {
		return nil, nil, fmt.Errorf("dsl: %s: %s has a dangling attribute key", cmd.Pos, cmd.Name)
	}
	attrs := make(map[string]string, len(rest)/2)
	for i := 0; i < len(rest); i += 2 {
		if rest[i].Type != "Ident" {
			return nil, nil, fmt.Errorf("dsl: %s: attribute key %q must be an identifier", rest[i].Pos, rest[i].Value)
		}
		attrs[rest[i].Value] = rest[i+1].Value
	}
	return pos, attrs, nil
}

func number(l *Lexeme) (float64, error) {
	v, err := strconv.ParseFloat(l.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("dsl: %s: expected a number, got %q", l.Pos, l.Value)
	}
	return v, nil
}

// parseColor reads #rgb, #rrggbb or #rrggbbaa.
func parseColor(value string) (color.Color, error) {
	hex := value
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	parse := func(s string) uint8 {
		v, _ := strconv.ParseUint(s, 16, 16)
		return uint8(v)
	}
	switch len(hex) {
	case 3:
		return color.NRGBA{
			R: parse(string([]byte{hex[0], hex[0]})),
			G: parse(string([]byte{hex[1], hex[1]})),
			B: parse(string([]byte{hex[2], hex[2]})),
			A: 0xff,
		}, nil
	case 6:
		return color.NRGBA{R: parse(hex[0:2]), G: parse(hex[2:4]), B: parse(hex[4:6]), A: 0xff}, nil
	case 8:
		return color.NRGBA{R: parse(hex[0:2]), G: parse(hex[2:4]), B: parse(hex[4:6]), A: parse(hex[6:8])}, nil
	default:
		return nil, fmt.Errorf("dsl: cannot parse color %q", value)
	}
}
