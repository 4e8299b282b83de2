package printing

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shipguide/backend/internal/domain/cashclose"
	"github.com/shipguide/backend/internal/domain/guide"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGuide(t *testing.T) *guide.Guide {
	t.Helper()
	g, err := guide.NewGuide(guide.ServiceParcel, guide.PaymentCash,
		decimal.NewFromInt(50000), decimal.NewFromInt(28000), 1, 2, uuid.New())
	require.NoError(t, err)
	g.ID = 42
	g.OriginCityName = "Bogotá"
	g.DestCityName = "Medellín"

	g.Sender, err = guide.NewParty(guide.RoleSender, "Maria Gomez", "CC", "1020304050",
		"3001112233", "", "Calle 10 #4-20", 1)
	require.NoError(t, err)
	g.Receiver, err = guide.NewParty(guide.RoleReceiver, "Juan Perez", "CC", "8090100110",
		"", "", "Carrera 45 #12-30", 2)
	require.NoError(t, err)
	g.Package, err = guide.NewPackage(decimal.NewFromFloat(2.5), 3,
		decimal.NewFromInt(30), decimal.NewFromInt(20), decimal.NewFromInt(10),
		false, "books", "")
	require.NoError(t, err)
	return g
}

func TestBuildWaybillHTML(t *testing.T) {
	t.Run("renders three copies with barcode and parties", func(t *testing.T) {
		html, err := BuildWaybillHTML(testGuide(t))
		require.NoError(t, err)

		assert.Equal(t, 3, strings.Count(html, "GUÍA DE TRANSPORTE"))
		assert.Contains(t, html, "ORIGINAL-DESTINATARIO")
		assert.Contains(t, html, "COPIA-REMITENTE")
		assert.Contains(t, html, "COPIA-TRANSPORTADORA")
		assert.Equal(t, 3, strings.Count(html, "No. 00000042"))
		assert.Equal(t, 3, strings.Count(html, "<svg"))
		assert.Contains(t, html, "Maria Gomez")
		assert.Contains(t, html, "Juan Perez")
		assert.Contains(t, html, "Bogotá")
		assert.Contains(t, html, "28000.00")
	})

	t.Run("escapes markup in user content", func(t *testing.T) {
		g := testGuide(t)
		g.Package.Description = "<script>alert(1)</script>"
		html, err := BuildWaybillHTML(g)
		require.NoError(t, err)
		assert.NotContains(t, html, "<script>")
	})

	t.Run("missing relations fail", func(t *testing.T) {
		g := testGuide(t)
		g.Package = nil
		_, err := BuildWaybillHTML(g)
		require.Error(t, err)
	})
}

func TestBarcodeSVG(t *testing.T) {
	svg := string(barcodeSVG("00000042", 36))
	assert.Contains(t, svg, "<svg")
	// 2 sentinel bars each side plus 5 bars per digit
	assert.Equal(t, 4+8*5, strings.Count(svg, "<rect"))

	// deterministic for a given value
	assert.Equal(t, svg, string(barcodeSVG("00000042", 36)))
	assert.NotEqual(t, svg, string(barcodeSVG("00000043", 36)))
}

func TestBuildCashCloseHTML(t *testing.T) {
	cc, err := cashclose.NewCashClose(cashclose.PeriodDaily,
		mustDate("2026-08-14"), mustDate("2026-08-15"), uuid.New())
	require.NoError(t, err)
	cc.ID = 7
	cc.Apply(cashclose.Totals{
		Guides: 12,
		Amount: decimal.NewFromInt(340000),
		Cash:   decimal.NewFromInt(200000),
		COD:    decimal.NewFromInt(100000),
		Credit: decimal.NewFromInt(40000),
	})

	html, err := BuildCashCloseHTML(cc)
	require.NoError(t, err)
	assert.Contains(t, html, "CIERRE DE CAJA No. 00000007")
	assert.Contains(t, html, "DIARIO")
	assert.Contains(t, html, "340000.00")
	assert.Contains(t, html, "2026-08-14")
}

func mustDate(s string) (t time.Time) {
	t, _ = time.Parse("2006-01-02", s)
	return t
}
