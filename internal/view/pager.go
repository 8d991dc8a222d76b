package view

// MaxPageButtons 最多显示的数字页码按钮
const MaxPageButtons = 5

// PageLink 数字页码按钮
type PageLink struct {
	Number  int
	Current bool
}

// Pager 分页控件状态
type Pager struct {
	Page         int
	TotalPages   int
	Prev         int
	Next         int
	PrevDisabled bool
	NextDisabled bool
	Pages        []PageLink
	// Visible 多于一页，或当前页已越界时显示
	Visible bool
}

// NewPager 由状态推导分页控件
func NewPager(s State) Pager {
	total := s.TotalPages()
	page := s.Page
	if page < 1 {
		page = 1
	}

	p := Pager{
		Page:       page,
		TotalPages: total,
		Prev:       page - 1,
		Next:       page + 1,
		Visible:    s.Result != nil && (total > 1 || page > 1),
	}
	// 目标页不在 [1, total] 内或正在加载时禁用
	p.PrevDisabled = s.Loading || !inRange(p.Prev, total)
	p.NextDisabled = s.Loading || !inRange(p.Next, total)

	// 以当前页为中心的窗口
	start := page - MaxPageButtons/2
	if start < 1 {
		start = 1
	}
	end := start + MaxPageButtons - 1
	if end > total {
		end = total
		start = end - MaxPageButtons + 1
		if start < 1 {
			start = 1
		}
	}
	for n := start; n <= end; n++ {
		p.Pages = append(p.Pages, PageLink{Number: n, Current: n == page})
	}
	return p
}

// CanGoTo 页码是否可跳转
func (p Pager) CanGoTo(page int) bool {
	return inRange(page, p.TotalPages)
}

func inRange(page, total int) bool {
	return page >= 1 && page <= total
}
