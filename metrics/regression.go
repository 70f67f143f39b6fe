package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gonformal/pkg/errors"
)

// Coverage は経験被覆率を計算する
//
// 真値が予測区間 [lower, upper] に含まれるテスト点の割合を返す。
// 境界上の点は区間に含まれるものとして数える。
func Coverage(yTrue, lower, upper *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Coverage", "empty vector")
	}
	if lower.Len() != n {
		return 0, errors.NewDimensionError("Coverage", n, lower.Len(), 0)
	}
	if upper.Len() != n {
		return 0, errors.NewDimensionError("Coverage", n, upper.Len(), 0)
	}

	covered := 0
	for i := 0; i < n; i++ {
		y := yTrue.AtVec(i)
		if lower.AtVec(i) <= y && y <= upper.AtVec(i) {
			covered++
		}
	}

	return float64(covered) / float64(n), nil
}

// MeanWidth は予測区間幅 (upper - lower) の平均を計算する
func MeanWidth(lower, upper *mat.VecDense) (float64, error) {
	n := lower.Len()
	if n == 0 {
		return 0, errors.NewValueError("MeanWidth", "empty vector")
	}
	if upper.Len() != n {
		return 0, errors.NewDimensionError("MeanWidth", n, upper.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += upper.AtVec(i) - lower.AtVec(i)
	}

	return sum / float64(n), nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// R2Score は決定係数（R²）を計算する
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("R2Score", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("R2Score", n, yPred.Len(), 0)
	}

	// yTrueの平均を計算
	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	// 全変動（TSS）と残差変動（RSS）を計算
	var tss, rss float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		yPredVal := yPred.AtVec(i)

		tss += (yTrueVal - yMean) * (yTrueVal - yMean)
		rss += (yTrueVal - yPredVal) * (yTrueVal - yPredVal)
	}

	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}
