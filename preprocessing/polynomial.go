package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gonformal/core/model"
	"github.com/YuminosukeSato/gonformal/pkg/errors"
)

// PolynomialFeatures は多項式特徴量への変換器
//
// 各特徴量を1次からDegree次まで累乗した列（交互作用項なし）を生成する。
// IncludeBias が true の場合、先頭にバイアス列（すべて1）を追加する。
// 1次元入力に対しては scikit-learn の PolynomialFeatures と同じ
// [1, x, x², ..., x^degree] の展開になる。
type PolynomialFeatures struct {
	model.BaseEstimator

	// Degree は多項式の次数
	Degree int

	// IncludeBias はバイアス列（すべて1）を含めるかどうか
	IncludeBias bool

	// NFeatures は入力特徴量の数
	NFeatures int
}

// NewPolynomialFeatures は新しいPolynomialFeaturesを作成する
//
// パラメータ:
//   - degree: 多項式の次数（1以上）
//   - includeBias: バイアス列を含めるかどうか
//
// 使用例:
//
//	poly := preprocessing.NewPolynomialFeatures(4, true)
//	err := poly.Fit(X)
//	XPoly, err := poly.Transform(X)
func NewPolynomialFeatures(degree int, includeBias bool) *PolynomialFeatures {
	return &PolynomialFeatures{
		Degree:      degree,
		IncludeBias: includeBias,
	}
}

// Fit は入力データの特徴量数を記録する
func (pf *PolynomialFeatures) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("PolynomialFeatures.Fit", "empty data", errors.ErrEmptyData)
	}
	if pf.Degree < 1 {
		return errors.NewValidationError("degree", "must be at least 1", pf.Degree)
	}

	pf.NFeatures = c
	pf.SetFitted()

	return nil
}

// Transform は入力データを多項式特徴量へ変換する
func (pf *PolynomialFeatures) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !pf.IsFitted() {
		return nil, errors.NewNotFittedError("PolynomialFeatures", "Transform")
	}

	r, c := X.Dims()
	if c != pf.NFeatures {
		return nil, errors.NewDimensionError("PolynomialFeatures.Transform", pf.NFeatures, c, 1)
	}

	nOut := c * pf.Degree
	offset := 0
	if pf.IncludeBias {
		nOut++
		offset = 1
	}

	out := mat.NewDense(r, nOut, nil)
	for i := 0; i < r; i++ {
		if pf.IncludeBias {
			out.Set(i, 0, 1.0)
		}
		for j := 0; j < c; j++ {
			for d := 1; d <= pf.Degree; d++ {
				out.Set(i, offset+(d-1)*c+j, math.Pow(X.At(i, j), float64(d)))
			}
		}
	}

	return out, nil
}

// FitTransform はFitとTransformを連続して実行する
func (pf *PolynomialFeatures) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := pf.Fit(X); err != nil {
		return nil, err
	}
	return pf.Transform(X)
}

// NOutputFeatures は変換後の特徴量数を返す
func (pf *PolynomialFeatures) NOutputFeatures() int {
	if !pf.IsFitted() {
		return 0
	}
	n := pf.NFeatures * pf.Degree
	if pf.IncludeBias {
		n++
	}
	return n
}
