package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlainObject(t *testing.T) {
	var out map[string]any
	err := Extract(`{"score": 82, "feedback": "solid"}`, &out)
	require.NoError(t, err)
	assert.Equal(t, float64(82), out["score"])
}

func TestExtractFencedJSON(t *testing.T) {
	reply := "Here is the result:\n```json\n{\"pros\": [\"cheap\"], \"cons\": [\"slow\"]}\n```\nLet me know."
	var out struct {
		Pros []string `json:"pros"`
		Cons []string `json:"cons"`
	}
	err := Extract(reply, &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"cheap"}, out.Pros)
	assert.Equal(t, []string{"slow"}, out.Cons)
}

func TestExtractBareFence(t *testing.T) {
	reply := "```\n[{\"name\": \"Acme\"}]\n```"
	var out []struct {
		Name string `json:"name"`
	}
	err := Extract(reply, &out)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Acme", out[0].Name)
}

func TestExtractSurroundingProse(t *testing.T) {
	reply := `The model thinks the answer is {"total_score": 71, "feedback": "ok"} based on the rubric.`
	var out map[string]any
	err := Extract(reply, &out)
	require.NoError(t, err)
	assert.Equal(t, float64(71), out["total_score"])
}

func TestExtractArray(t *testing.T) {
	reply := `questions below: [{"question": "What problem does this solve?"}] done`
	doc, err := ExtractString(reply)
	require.NoError(t, err)
	assert.Equal(t, `[{"question": "What problem does this solve?"}]`, doc)
}

func TestExtractRejectsInvalidSpan(t *testing.T) {
	// widest bracket-to-brace span here is not valid JSON
	_, err := ExtractString(`noise [1, 2, trailing {"a": 1}`)
	assert.Error(t, err)
}

func TestExtractFailures(t *testing.T) {
	var out map[string]any
	assert.Error(t, Extract("", &out))
	assert.Error(t, Extract("no json here at all", &out))
	assert.Error(t, Extract("{broken: ", &out))
}

func TestStringField(t *testing.T) {
	reply := "```json\n{\"annual_revenue\": \"$2.1B\", \"market_cap\": \"\"}\n```"
	assert.Equal(t, "$2.1B", StringField(reply, "annual_revenue"))
	assert.Equal(t, "", StringField(reply, "missing"))
	assert.Equal(t, "", StringField("garbage", "annual_revenue"))
}

func TestStringMap(t *testing.T) {
	def := map[string]string{"annual_revenue": ""}
	got := StringMap(`{"annual_revenue": "$1M", "profitability": "profitable"}`, def)
	assert.Equal(t, "$1M", got["annual_revenue"])
	assert.Equal(t, "profitable", got["profitability"])

	assert.Equal(t, def, StringMap("not json", def))
	assert.Equal(t, def, StringMap(`[1,2]`, def))
}
