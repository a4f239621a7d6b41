package loan

import "time"

// 借阅规则
const (
	// LoanPeriodDays 借期(天)
	LoanPeriodDays = 14

	// MaxActiveLoans 每位会员同时借出的上限
	MaxActiveLoans = 3
)

// Today 截断到本地零点
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DueDateFrom 借出日期对应的应还日期
func DueDateFrom(loanDate time.Time) time.Time {
	return Today(loanDate).AddDate(0, 0, LoanPeriodDays)
}

// HasOverdue 是否存在逾期借阅
func HasOverdue(loans []*Loan, today time.Time) bool {
	for _, l := range loans {
		if l.IsOverdue(today) {
			return true
		}
	}
	return false
}

// ActiveOnly 过滤出借出中的记录,保持原顺序
func ActiveOnly(loans []*Loan) []*Loan {
	active := make([]*Loan, 0, len(loans))
	for _, l := range loans {
		if l.IsActive() {
			active = append(active, l)
		}
	}
	return active
}
