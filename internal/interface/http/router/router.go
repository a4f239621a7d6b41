// Package router 组装gin引擎与全部路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
)

// Handlers 全部HTTP处理器
type Handlers struct {
	Books   *handler.BookHandler
	Catalog *handler.CatalogHandler
	Members *handler.MemberHandler
	Lending *handler.LendingHandler
	Reviews *handler.ReviewHandler
}

// New 创建gin引擎并注册路由
func New(mode string, log *zap.Logger, h Handlers) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(log), middleware.Metrics())

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	Register(v1, h)

	return r
}

// Register 在v1分组下注册业务路由
func Register(v1 *gin.RouterGroup, h Handlers) {
	books := v1.Group("/books")
	{
		books.POST("", h.Books.AddBook)
		books.GET("", h.Books.ListBooks)
		books.GET("/:id", h.Books.GetBook)
		books.PUT("/:id", h.Books.UpdateBook)
		books.DELETE("/:id", h.Books.DeleteBook)
		books.GET("/:id/reviews", h.Reviews.BookReviews)
		books.POST("/:id/reviews", h.Reviews.AddReview)
		books.GET("/:id/rating", h.Reviews.Rating)
	}
	v1.GET("/rankings/books", h.Reviews.Rankings)

	authors := v1.Group("/authors")
	{
		authors.POST("", h.Catalog.AddAuthor)
		authors.GET("", h.Catalog.ListAuthors)
		authors.GET("/:id/books", h.Catalog.BooksByAuthor)
	}
	publishers := v1.Group("/publishers")
	{
		publishers.POST("", h.Catalog.AddPublisher)
		publishers.GET("", h.Catalog.ListPublishers)
		publishers.GET("/:id/books", h.Catalog.BooksByPublisher)
	}
	categories := v1.Group("/categories")
	{
		categories.POST("", h.Catalog.AddCategory)
		categories.GET("", h.Catalog.ListCategories)
		categories.GET("/:id/books", h.Catalog.BooksByCategory)
	}

	members := v1.Group("/members")
	{
		members.POST("", h.Members.AddMember)
		members.GET("", h.Members.ListMembers)
		members.GET("/:id", h.Members.GetMember)
		members.GET("/:id/loans", h.Members.ActiveLoans)
		members.GET("/:id/loans/history", h.Members.LoanHistory)
		members.GET("/:id/reservations", h.Members.Reservations)
		members.GET("/:id/overdue", h.Members.Overdue)
		members.GET("/:id/recommendations", h.Members.Recommendations)
		members.GET("/:id/borrowed-books", h.Members.BorrowedBooks)
	}
	staff := v1.Group("/staff")
	{
		staff.POST("", h.Members.AddStaff)
		staff.GET("", h.Members.ListStaff)
		staff.GET("/check", h.Members.CheckStaff)
	}
	v1.GET("/identities", h.Members.Identity)

	loans := v1.Group("/loans")
	{
		loans.POST("", h.Lending.Borrow)
		loans.GET("", h.Lending.ListLoans)
		loans.GET("/due-date", h.Lending.DueDate)
		loans.POST("/:id/return", h.Lending.Return)
	}
	v1.GET("/reservations", h.Lending.ListReservations)

	reviews := v1.Group("/reviews")
	{
		reviews.GET("", h.Reviews.ListReviews)
		reviews.DELETE("/:id", h.Reviews.DeleteReview)
	}
}
