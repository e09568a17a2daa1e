package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDraftFromFencedBlock(t *testing.T) {
	reply := "Perfeito, anotei o seu pedido!\n\n```json\n" +
		`{"name": "João Baptista", "service": "impressão de banner", "quantity": 2, "description": "banner 2x1m para feira", "confirmed": false}` +
		"\n```"

	draft, ok := ExtractDraft(reply)
	require.True(t, ok)
	assert.Equal(t, "João Baptista", draft.Name)
	assert.Equal(t, "impressão de banner", draft.Service)
	assert.Equal(t, "2", draft.Quantity, "numeric quantities are normalized to strings")
	assert.Equal(t, "banner 2x1m para feira", draft.Description)
	assert.Equal(t, "nao", draft.Confirmed, "booleans map onto the sim/nao vocabulary")
}

func TestExtractDraftMissingFieldsFallBack(t *testing.T) {
	reply := `Ok! {"name": "Maria"}`

	draft, ok := ExtractDraft(reply)
	require.True(t, ok)
	assert.Equal(t, "Maria", draft.Name)
	assert.Equal(t, Unknown, draft.Service)
	assert.Equal(t, Unknown, draft.Quantity)
	assert.Equal(t, Unknown, draft.Description)
	assert.Equal(t, Unknown, draft.Confirmed)
}

func TestExtractDraftRepairsSloppyJSON(t *testing.T) {
	// trailing comma and single quotes, as models sometimes emit
	reply := `Anotado. {'name': 'Rui', 'service': 'cartões de visita', 'quantity': '500',}`

	draft, ok := ExtractDraft(reply)
	require.True(t, ok)
	assert.Equal(t, "Rui", draft.Name)
	assert.Equal(t, "cartões de visita", draft.Service)
	assert.Equal(t, "500", draft.Quantity)
}

func TestExtractDraftNoBlock(t *testing.T) {
	_, ok := ExtractDraft("Olá! Em que posso ajudar com a sua impressão?")
	assert.False(t, ok)
}

func TestExtractDraftPicksLastObject(t *testing.T) {
	reply := `O pedido {"name": "errado"} ficou assim: {"name": "Certo", "confirmed": true}`

	draft, ok := ExtractDraft(reply)
	require.True(t, ok)
	assert.Equal(t, "Certo", draft.Name)
	assert.Equal(t, "sim", draft.Confirmed)
}

func TestExtractDraftBlankStringsAreUnknown(t *testing.T) {
	reply := `{"name": "  ", "service": "flyers"}`

	draft, ok := ExtractDraft(reply)
	require.True(t, ok)
	assert.Equal(t, Unknown, draft.Name)
	assert.Equal(t, "flyers", draft.Service)
}

func TestStripDraftRemovesBlockAndFences(t *testing.T) {
	reply := "Pedido registado, obrigado!\n\n```json\n" +
		`{"name": "João", "confirmed": "sim"}` +
		"\n```"

	assert.Equal(t, "Pedido registado, obrigado!", StripDraft(reply))
}

func TestStripDraftWithoutFences(t *testing.T) {
	reply := `Pedido registado! {"name": "João"}`

	assert.Equal(t, "Pedido registado!", StripDraft(reply))
}

func TestStripDraftNoBlockIsIdentity(t *testing.T) {
	reply := "Bom dia! O que deseja imprimir?"
	assert.Equal(t, reply, StripDraft(reply))
}
