package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/shipguide/backend/internal/domain/guide"
)

// code25Patterns maps each digit to its standard 2-of-5 bar widths
// (true = wide bar). Digit-only symbology, which suits the numeric guide
// numbers.
var code25Patterns = map[rune][5]bool{
	'0': {false, false, true, true, false},
	'1': {true, false, false, false, true},
	'2': {false, true, false, false, true},
	'3': {true, true, false, false, false},
	'4': {false, false, true, false, true},
	'5': {true, false, true, false, false},
	'6': {false, true, true, false, false},
	'7': {false, false, false, true, true},
	'8': {true, false, false, true, false},
	'9': {false, true, false, true, false},
}

// barcodeSVG renders a numeric value as an inline standard 2-of-5 barcode.
// Inline SVG keeps the document self-contained; headless Chrome never
// touches the network while printing.
func barcodeSVG(value string, height int) template.HTML {
	const narrow, wide, gap = 2, 6, 2

	var bars bytes.Buffer
	x := 0
	bar := func(w int) {
		fmt.Fprintf(&bars, `<rect x="%d" y="0" width="%d" height="%d"/>`, x, w, height)
		x += w + gap
	}

	// start sentinel
	bar(wide)
	bar(narrow)
	for _, ch := range value {
		pattern, ok := code25Patterns[ch]
		if !ok {
			continue
		}
		for _, isWide := range pattern {
			if isWide {
				bar(wide)
			} else {
				bar(narrow)
			}
		}
	}
	// stop sentinel
	bar(narrow)
	bar(wide)

	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" fill="#000">%s</svg>`,
		x-gap, height, bars.String())
	return template.HTML(svg)
}

// waybillCopies are printed in fixed order on every guide document
var waybillCopies = []string{
	"ORIGINAL-DESTINATARIO",
	"COPIA-REMITENTE",
	"COPIA-TRANSPORTADORA",
}

var waybillTmpl = template.Must(template.New("waybill").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Guía {{.Number}}</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: Arial, Helvetica, sans-serif; font-size: 10px; color: #111; }
  .copy { border: 1.5px solid #111; margin-bottom: 10px; padding: 8px; page-break-inside: avoid; }
  .head { display: flex; justify-content: space-between; align-items: flex-start; border-bottom: 1px solid #111; padding-bottom: 6px; }
  .head h1 { font-size: 15px; letter-spacing: 1px; }
  .head .copy-label { font-size: 9px; font-weight: bold; text-align: right; }
  .number { font-size: 13px; font-weight: bold; }
  .barcode { text-align: center; padding: 4px 0; }
  .barcode .caption { font-size: 9px; letter-spacing: 3px; }
  .grid { display: flex; gap: 8px; margin-top: 6px; }
  .cell { flex: 1; border: 1px solid #999; padding: 4px; }
  .cell h2 { font-size: 9px; text-transform: uppercase; border-bottom: 1px solid #ccc; margin-bottom: 3px; }
  .row { margin-bottom: 1px; }
  .row b { display: inline-block; min-width: 62px; }
  .totals { display: flex; gap: 8px; margin-top: 6px; }
  .totals .cell { text-align: center; }
  .totals .value { font-size: 12px; font-weight: bold; }
  .notes { margin-top: 4px; font-size: 9px; }
</style>
</head>
<body>
{{- $g := . -}}
{{- range .Copies}}
<div class="copy">
  <div class="head">
    <div>
      <h1>GUÍA DE TRANSPORTE</h1>
      <div class="number">No. {{$g.Number}}</div>
      <div>{{$g.ServiceLabel}} &middot; {{$g.PaymentMethod}}</div>
    </div>
    <div>
      <div class="barcode">{{$g.Barcode}}<div class="caption">{{$g.Number}}</div></div>
      <div class="copy-label">{{.}}</div>
    </div>
  </div>
  <div class="grid">
    <div class="cell">
      <h2>Remitente</h2>
      <div class="row"><b>Nombre:</b> {{$g.Sender.FullName}}</div>
      <div class="row"><b>Documento:</b> {{$g.Sender.DocumentType}} {{$g.Sender.DocumentNumber}}</div>
      <div class="row"><b>Dirección:</b> {{$g.Sender.Address}}</div>
      <div class="row"><b>Ciudad:</b> {{$g.OriginCity}}</div>
      <div class="row"><b>Teléfono:</b> {{$g.Sender.Phone}}</div>
    </div>
    <div class="cell">
      <h2>Destinatario</h2>
      <div class="row"><b>Nombre:</b> {{$g.Receiver.FullName}}</div>
      <div class="row"><b>Documento:</b> {{$g.Receiver.DocumentType}} {{$g.Receiver.DocumentNumber}}</div>
      <div class="row"><b>Dirección:</b> {{$g.Receiver.Address}}</div>
      <div class="row"><b>Ciudad:</b> {{$g.DestCity}}</div>
      <div class="row"><b>Teléfono:</b> {{$g.Receiver.Phone}}</div>
    </div>
  </div>
  <div class="totals">
    <div class="cell"><h2>Piezas</h2><div class="value">{{$g.Pieces}}</div></div>
    <div class="cell"><h2>Peso (kg)</h2><div class="value">{{$g.WeightKg}}</div></div>
    <div class="cell"><h2>Dimensiones (cm)</h2><div class="value">{{$g.Dimensions}}</div></div>
    <div class="cell"><h2>Valor declarado</h2><div class="value">${{$g.DeclaredValue}}</div></div>
    <div class="cell"><h2>Flete</h2><div class="value">${{$g.Price}}</div></div>
  </div>
  {{- if $g.Description}}
  <div class="notes"><b>Contenido:</b> {{$g.Description}}</div>
  {{- end}}
  {{- if $g.SpecialNotes}}
  <div class="notes"><b>Observaciones:</b> {{$g.SpecialNotes}}</div>
  {{- end}}
</div>
{{- end}}
</body>
</html>`))

type waybillData struct {
	Number        string
	ServiceLabel  string
	PaymentMethod string
	Barcode       template.HTML
	Copies        []string

	Sender, Receiver *guide.Party
	OriginCity       string
	DestCity         string

	Pieces        int
	WeightKg      string
	Dimensions    string
	DeclaredValue string
	Price         string
	Description   string
	SpecialNotes  string
}

// BuildWaybillHTML renders the fixed three-copy waybill layout for a guide.
// The guide must carry its sender, receiver and package relations.
func BuildWaybillHTML(g *guide.Guide) (string, error) {
	if g.Sender == nil || g.Receiver == nil || g.Package == nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "guide is missing sender, receiver or package", nil)
	}

	serviceLabel := "PAQUETEO"
	if g.ServiceType == guide.ServiceMessengerFlat {
		serviceLabel = "MENSAJERÍA"
	}

	data := waybillData{
		Number:        g.Number(),
		ServiceLabel:  serviceLabel,
		PaymentMethod: string(g.PaymentMethod),
		Barcode:       barcodeSVG(g.Number(), 36),
		Copies:        waybillCopies,
		Sender:        g.Sender,
		Receiver:      g.Receiver,
		OriginCity:    g.OriginCityName,
		DestCity:      g.DestCityName,
		Pieces:        g.Package.Pieces,
		WeightKg:      g.Package.WeightKg.String(),
		Dimensions: fmt.Sprintf("%s x %s x %s",
			g.Package.LengthCm.String(), g.Package.WidthCm.String(), g.Package.HeightCm.String()),
		DeclaredValue: g.DeclaredValue.StringFixed(2),
		Price:         g.Price.StringFixed(2),
		Description:   g.Package.Description,
		SpecialNotes:  g.Package.SpecialNotes,
	}

	var buf strings.Builder
	if err := waybillTmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "waybill template execution failed", err)
	}
	return buf.String(), nil
}
