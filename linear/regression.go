package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gonformal/core/model"
	"github.com/YuminosukeSato/gonformal/pkg/errors"
)

// LinearRegression は最小二乗法による線形回帰モデル
//
// 特異値分解（SVD）に基づく最小ノルム解を使用するため、
// 特徴量数が標本数を上回る場合（d > n）でも学習できる。
type LinearRegression struct {
	model.BaseEstimator
	Weights   *mat.VecDense // 重み（係数）
	Intercept float64       // 切片
	NFeatures int           // 特徴量の数

	fitIntercept bool
}

// NewLinearRegression は新しい線形回帰モデルを作成する
//
// 使用例:
//
//	lr := linear.NewLinearRegression()
//	err := lr.Fit(X, y)
//	yPred, err := lr.Predict(XTest)
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{fitIntercept: true}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit はモデルを訓練データで学習させる
//
// 計画行列の薄いSVD（X = U・Σ・V^T）から擬似逆行列を構成し、
// w = V・Σ^+・U^T・y を解く。ランク落ちした計画行列に対しては
// 最小ノルム解を返す（scikit-learnのlstsqと同じ挙動）。
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}

	lr.NFeatures = c

	// 切片項のために X に 1 の列を追加
	p := c
	if lr.fitIntercept {
		p = c + 1
	}
	A := mat.NewDense(r, p, nil)
	for i := 0; i < r; i++ {
		off := 0
		if lr.fitIntercept {
			A.Set(i, 0, 1.0)
			off = 1
		}
		for j := 0; j < c; j++ {
			A.Set(i, j+off, X.At(i, j))
		}
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var svd mat.SVD
	if ok := svd.Factorize(A, mat.SVDThin); !ok {
		return errors.NewModelError("LinearRegression.Fit", "SVD factorization failed", errors.ErrSingularMatrix)
	}

	s := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// 有効ランクの判定閾値（LAPACKの慣例に従う）
	maxDim := r
	if p > maxDim {
		maxDim = p
	}
	tol := float64(maxDim) * s[0] * 2.220446049250313e-16

	// w = V・Σ^+・U^T・y
	k := len(s)
	coef := mat.NewVecDense(k, nil)
	for i := 0; i < k; i++ {
		if s[i] <= tol {
			coef.SetVec(i, 0)
			continue
		}
		var dot float64
		for row := 0; row < r; row++ {
			dot += u.At(row, i) * yVec.AtVec(row)
		}
		coef.SetVec(i, dot/s[i])
	}

	weights := mat.NewVecDense(p, nil)
	weights.MulVec(&v, coef)

	// 切片と重みを分離
	if lr.fitIntercept {
		lr.Intercept = weights.AtVec(0)
		lr.Weights = mat.NewVecDense(c, nil)
		for i := 0; i < c; i++ {
			lr.Weights.SetVec(i, weights.AtVec(i+1))
		}
	} else {
		lr.Intercept = 0
		lr.Weights = weights
	}

	lr.SetFitted()

	return nil
}

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	// 予測: y = X * weights + intercept
	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := lr.Intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * lr.Weights.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}

	return predictions, nil
}

// GetWeights は学習された重み（係数）を返す
func (lr *LinearRegression) GetWeights() []float64 {
	if lr.Weights == nil {
		return nil
	}

	weights := make([]float64, lr.Weights.Len())
	for i := 0; i < lr.Weights.Len(); i++ {
		weights[i] = lr.Weights.AtVec(i)
	}
	return weights
}

// GetIntercept は学習された切片を返す
func (lr *LinearRegression) GetIntercept() float64 {
	if !lr.IsFitted() {
		return 0
	}
	return lr.Intercept
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("LinearRegression", "Score")
	}

	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()

	// y の平均を計算
	var yMean float64
	for i := 0; i < r; i++ {
		yMean += y.At(i, 0)
	}
	yMean /= float64(r)

	// 全変動 (TSS) と残差変動 (RSS) を計算
	var tss, rss float64
	for i := 0; i < r; i++ {
		yTrue := y.At(i, 0)
		yPredVal := yPred.At(i, 0)

		tss += (yTrue - yMean) * (yTrue - yMean)
		rss += (yTrue - yPredVal) * (yTrue - yPredVal)
	}

	if tss == 0 {
		return 0, errors.Newf("total sum of squares is zero")
	}

	return 1 - rss/tss, nil
}
