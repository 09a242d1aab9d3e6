package data

import (
	"math/rand"
	"time"
)

// StratifiedSplit shuffles rows within each outcome class and assigns
// trainFrac of each class to the training side, so the rare positive class
// keeps the same prevalence on both sides. Row slices are shared with the
// input, never copied or mutated.
func StratifiedSplit(X [][]float64, y []int, trainFrac float64, rng *rand.Rand) (Xtrain [][]float64, ytrain []int, Xtest [][]float64, ytest []int) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var posIdx, negIdx []int
	for i := range y {
		if y[i] == 1 {
			posIdx = append(posIdx, i)
		} else {
			negIdx = append(negIdx, i)
		}
	}
	rng.Shuffle(len(posIdx), func(i, j int) { posIdx[i], posIdx[j] = posIdx[j], posIdx[i] })
	rng.Shuffle(len(negIdx), func(i, j int) { negIdx[i], negIdx[j] = negIdx[j], negIdx[i] })

	pTrain := int(trainFrac * float64(len(posIdx)))
	nTrain := int(trainFrac * float64(len(negIdx)))

	trainIdx := append(append([]int{}, posIdx[:pTrain]...), negIdx[:nTrain]...)
	testIdx := append(append([]int{}, posIdx[pTrain:]...), negIdx[nTrain:]...)
	rng.Shuffle(len(trainIdx), func(i, j int) { trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i] })
	rng.Shuffle(len(testIdx), func(i, j int) { testIdx[i], testIdx[j] = testIdx[j], testIdx[i] })

	Xtrain = make([][]float64, len(trainIdx))
	ytrain = make([]int, len(trainIdx))
	for i, idx := range trainIdx {
		Xtrain[i] = X[idx]
		ytrain[i] = y[idx]
	}
	Xtest = make([][]float64, len(testIdx))
	ytest = make([]int, len(testIdx))
	for i, idx := range testIdx {
		Xtest[i] = X[idx]
		ytest[i] = y[idx]
	}
	return
}
