package crafts

import (
	"slices"
	"strconv"
)

// Indexer accumulates recipes in source order into the two lookup tables.
type Indexer struct {
	byRecipe *RecipeIndex
	byOutput *RecipeIndex
	outputs  []int64

	alternatives int
}

func NewIndexer() *Indexer {
	return &Indexer{
		byRecipe: NewRecipeIndex(),
		byOutput: NewRecipeIndex(),
	}
}

// Add stores r under its recipe id (replacing any earlier record with that id)
// and either makes it the primary for its output item or appends it to the
// existing primary's alternatives.
func (ix *Indexer) Add(r *Recipe) {
	ix.byRecipe.Set(strconv.FormatInt(r.RecipeID, 10), r)

	key := strconv.FormatInt(r.OutputItemID, 10)
	primary, ok := ix.byOutput.Get(key)
	if !ok {
		ix.byOutput.Set(key, r)
		ix.outputs = append(ix.outputs, r.OutputItemID)
		return
	}
	primary.Alternatives = append(primary.Alternatives, r)
	ix.alternatives++
}

// ByRecipeID returns the recipe-id index built so far.
func (ix *Indexer) ByRecipeID() *RecipeIndex { return ix.byRecipe }

// ByOutputItemID returns the output-item index built so far.
func (ix *Indexer) ByOutputItemID() *RecipeIndex { return ix.byOutput }

// Alternatives reports how many records were attached as alternatives.
func (ix *Indexer) Alternatives() int { return ix.alternatives }

// OutputItemIDs returns the distinct primary output item ids, ascending.
func (ix *Indexer) OutputItemIDs() []int64 {
	out := slices.Clone(ix.outputs)
	slices.Sort(out)
	if out == nil {
		out = []int64{}
	}
	return out
}

// Document assembles the final artifact from the indexes.
func (ix *Indexer) Document(meta Meta) *Document {
	return &Document{
		Meta:                   meta,
		CraftableOutputItemIDs: ix.OutputItemIDs(),
		RecipesByOutputItemID:  ix.byOutput,
		RecipesByRecipeID:      ix.byRecipe,
	}
}
