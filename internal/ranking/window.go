package ranking

import (
	"fmt"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/model"
)

// BuildWindow returns the ranking window ending at year (the cutoff), most
// recent first, weighted by model.DefaultWeights. Seasons before minYear
// are not eligible and are left out, so early cutoffs get a shorter window.
func BuildWindow(year, minYear int) (model.Window, error) {
	if year < minYear {
		return nil, fmt.Errorf("year %d is before the first eligible season %d", year, minYear)
	}
	w := make(model.Window, 0, model.WindowSize)
	for i := 0; i < model.WindowSize; i++ {
		season := year - i
		if season < minYear {
			break
		}
		w = append(w, model.WindowEntry{Season: season, Weight: model.DefaultWeights[i]})
	}
	return w, nil
}
