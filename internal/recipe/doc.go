// Package recipe decodes recipe documents and builds the immutable Record
// values the rest of recipeview works with.
//
// Two dataset eras exist: older documents carry only name, times, yield and
// image, newer ones add description and ingredients. Both decode into the same
// RawRecipe; presence of the optional fields is detected structurally and
// surfaces through Record.HasDescription and Record.HasIngredients.
package recipe
