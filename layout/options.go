package layout

// Options 配置排版引擎所需的依赖：测量后端、页面几何与字体。
type Options struct {
	Measurer Measurer
	Geometry Geometry
	Fonts    FontSet
}

// Measurer 返回多行文本的外接框宽高（像素）。行间距固定，不做自动换行，
// 宽度为最宽一行的宽度。
type Measurer interface {
	Measure(text string, font FontResource) (width, height float64, err error)
}

// MeasureFunc 让普通函数满足 Measurer。
type MeasureFunc func(text string, font FontResource) (float64, float64, error)

func (f MeasureFunc) Measure(text string, font FontResource) (float64, float64, error) {
	return f(text, font)
}
