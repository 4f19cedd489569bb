//go:build js && wasm

package main

import (
	"bytes"
	"image"
	"syscall/js"

	"pixelify/pkg/pixelify"
)

var (
	lastImage   *image.NRGBA
	lastScale   int
	lastMetrics *pixelify.Metrics
)

func main() {
	js.Global().Set("pixelify", js.FuncOf(pixelifyImage))
	js.Global().Set("renderOverlay", js.FuncOf(renderOverlay))
	select {} // block forever
}

// pixelifyImage is exported as pixelify(fileBytes, scale, options).
func pixelifyImage(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("usage: pixelify(fileBytes, scale, options)")
	}

	jsBytes := args[0]
	length := jsBytes.Get("length").Int()
	fileBytes := make([]byte, length)
	js.CopyBytesToGo(fileBytes, jsBytes)

	scale := pixelify.DefaultScale
	if len(args) >= 2 && args[1].Type() == js.TypeNumber {
		scale = args[1].Int()
	}

	opts := pixelify.NewOptions()
	if len(args) >= 3 && args[2].Type() == js.TypeObject {
		strictVal := args[2].Get("strict")
		if strictVal.Type() == js.TypeBoolean {
			opts.Strict = strictVal.Bool()
		}
	}

	result, err := pixelify.Run(fileBytes, scale, opts)
	if err != nil {
		return errorResult(err.Error())
	}

	var buf bytes.Buffer
	if err := pixelify.Encode(&buf, result.Image, "png"); err != nil {
		return errorResult(err.Error())
	}

	lastImage = result.Image
	lastScale = scale
	lastMetrics = result.Metrics

	b := result.Image.Bounds()
	m := result.Metrics
	return js.ValueOf(map[string]interface{}{
		"image":   toUint8Array(buf.Bytes()),
		"width":   b.Dx(),
		"height":  b.Dy(),
		"format":  result.Format,
		"anchors": m.Anchors,
		"blended": m.Blended,
		"skipped": m.Skipped,
	})
}

func renderOverlay(this js.Value, args []js.Value) interface{} {
	if lastImage == nil {
		return js.Null()
	}

	jpegBytes, err := pixelify.RenderGridOverlayBytes(lastImage, lastScale, lastMetrics)
	if err != nil {
		return js.Null()
	}
	return toUint8Array(jpegBytes)
}

func toUint8Array(data []byte) js.Value {
	uint8Array := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(uint8Array, data)
	return uint8Array
}

func errorResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{
		"error": msg,
	})
}
