package database

import "time"

// 以下是infrastructure层的数据模型，包含GORM tag
// domain层实体不依赖GORM，由仓储负责两者之间的转换

// BookModel GORM图书模型
type BookModel struct {
	ID              uint      `gorm:"primaryKey"`
	Title           string    `gorm:"index;size:200;not null;comment:书名"`
	AuthorID        uint      `gorm:"index;not null;comment:作者ID"`
	CategoryID      uint      `gorm:"index;not null;comment:分类ID"`
	PublisherID     uint      `gorm:"index;not null;comment:出版社ID"`
	CopiesAvailable int       `gorm:"not null;default:0;comment:可借副本数"`
	Available       bool      `gorm:"not null;default:false;comment:是否可借"`
	CreatedAt       time.Time `gorm:"comment:创建时间"`
	UpdatedAt       time.Time `gorm:"comment:更新时间"`
}

func (BookModel) TableName() string { return "books" }

type AuthorModel struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"size:100;not null"`
	Email string `gorm:"size:100"`
	Phone string `gorm:"size:30"`
}

func (AuthorModel) TableName() string { return "authors" }

type PublisherModel struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"size:100;not null"`
	Email string `gorm:"size:100"`
	Phone string `gorm:"size:30"`
}

func (PublisherModel) TableName() string { return "publishers" }

type CategoryModel struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"type:text"`
}

func (CategoryModel) TableName() string { return "categories" }

// MemberModel 会员模型，邮箱唯一
type MemberModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	Email     string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Phone     string    `gorm:"size:30"`
	CreatedAt time.Time `gorm:"comment:注册时间"`
}

func (MemberModel) TableName() string { return "members" }

type StaffModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	Email     string    `gorm:"uniqueIndex;size:100;not null"`
	Phone     string    `gorm:"size:30"`
	Position  string    `gorm:"size:50"`
	CreatedAt time.Time
}

func (StaffModel) TableName() string { return "staff" }

// LoanModel 借阅记录模型
// 复合索引(member_id, status)用于逾期检查和在借数量统计
type LoanModel struct {
	ID         uint       `gorm:"primaryKey"`
	BookID     uint       `gorm:"index;not null;comment:图书ID"`
	MemberID   uint       `gorm:"index:idx_member_status;not null;comment:会员ID"`
	LoanDate   time.Time  `gorm:"not null;comment:借出日期"`
	DueDate    time.Time  `gorm:"not null;comment:应还日期"`
	ReturnDate *time.Time `gorm:"comment:归还日期"`
	Status     string     `gorm:"index:idx_member_status;size:16;not null;comment:状态(ACTIVE/RETURNED)"`
}

func (LoanModel) TableName() string { return "loans" }

// ReservationModel 预约模型
// 复合索引(book_id, reserved_at)对应归还时的先到先得查询
type ReservationModel struct {
	ID         uint      `gorm:"primaryKey"`
	BookID     uint      `gorm:"index:idx_book_reserved;not null"`
	MemberID   uint      `gorm:"index;not null"`
	ReservedAt time.Time `gorm:"index:idx_book_reserved;not null;comment:预约时间"`
}

func (ReservationModel) TableName() string { return "reservations" }

type ReviewModel struct {
	ID        uint      `gorm:"primaryKey"`
	BookID    uint      `gorm:"index;not null"`
	MemberID  uint      `gorm:"index;not null"`
	Rating    int       `gorm:"type:smallint;not null;comment:评分(1-5)"`
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time
}

func (ReviewModel) TableName() string { return "reviews" }
