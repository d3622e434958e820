package instance

import "q.log/tableau/model"

// Worked returns the built-in example: three constraints over four
// structural variables, augmented with the slacks x5, x6 and x7, which form
// the initial basis.
func Worked() *model.Model {
	m, err := model.FromTableau(
		[][]float64{
			{3, 1, 4, 4, 1, 0, 0, 100},
			{4, 2, 5, 5, 0, 1, 0, 100},
			{5, 5, 4, 0, 0, 0, 1, 100},
		},
		[]float64{-2.5, -2, -5, -3, 0, 0, 0, 0},
		[]int{4, 5, 6},
	)
	if err != nil {
		panic(err)
	}
	m.Name = "worked"
	return m
}
