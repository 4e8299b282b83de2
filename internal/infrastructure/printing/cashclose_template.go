package printing

import (
	"html/template"
	"strings"

	"github.com/shipguide/backend/internal/domain/cashclose"
)

var cashCloseTmpl = template.Must(template.New("cashclose").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Cierre de Caja {{.Number}}</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: Arial, Helvetica, sans-serif; font-size: 11px; color: #111; padding: 16px; }
  h1 { font-size: 16px; border-bottom: 2px solid #111; padding-bottom: 6px; margin-bottom: 10px; }
  .meta { margin-bottom: 14px; }
  .meta div { margin-bottom: 2px; }
  table { width: 100%; border-collapse: collapse; }
  th, td { border: 1px solid #999; padding: 6px 8px; text-align: right; }
  th { background: #eee; text-transform: uppercase; font-size: 9px; }
  td.label { text-align: left; }
  tr.total td { font-weight: bold; font-size: 12px; }
</style>
</head>
<body>
<h1>CIERRE DE CAJA No. {{.Number}}</h1>
<div class="meta">
  <div><b>Periodo:</b> {{.PeriodLabel}}</div>
  <div><b>Desde:</b> {{.Start}}</div>
  <div><b>Hasta:</b> {{.End}}</div>
  <div><b>Guías incluidas:</b> {{.TotalGuides}}</div>
</div>
<table>
  <tr><th>Forma de pago</th><th>Total</th></tr>
  <tr><td class="label">Contado</td><td>${{.TotalCash}}</td></tr>
  <tr><td class="label">Contra entrega</td><td>${{.TotalCOD}}</td></tr>
  <tr><td class="label">Crédito</td><td>${{.TotalCredit}}</td></tr>
  <tr class="total"><td class="label">TOTAL</td><td>${{.TotalAmount}}</td></tr>
</table>
</body>
</html>`))

type cashCloseData struct {
	Number      string
	PeriodLabel string
	Start       string
	End         string
	TotalGuides int
	TotalCash   string
	TotalCOD    string
	TotalCredit string
	TotalAmount string
}

// BuildCashCloseHTML renders the close report layout
func BuildCashCloseHTML(cc *cashclose.CashClose) (string, error) {
	periodLabel := "DIARIO"
	if cc.PeriodType == cashclose.PeriodMonthly {
		periodLabel = "MENSUAL"
	}

	data := cashCloseData{
		Number:      cc.Number(),
		PeriodLabel: periodLabel,
		Start:       cc.StartDate.Format("2006-01-02"),
		End:         cc.EndDate.Format("2006-01-02"),
		TotalGuides: cc.TotalGuides,
		TotalCash:   cc.TotalCash.StringFixed(2),
		TotalCOD:    cc.TotalCOD.StringFixed(2),
		TotalCredit: cc.TotalCredit.StringFixed(2),
		TotalAmount: cc.TotalAmount.StringFixed(2),
	}

	var buf strings.Builder
	if err := cashCloseTmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "close report template execution failed", err)
	}
	return buf.String(), nil
}
