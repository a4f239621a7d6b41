package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookapp "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/application/discovery"
	"github.com/xiebiao/library/internal/application/lending"
	appreview "github.com/xiebiao/library/internal/application/review"
	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/infrastructure/lock"
	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/library/internal/interface/http/handler"
)

// apiResponse 统一响应(Data延迟解析)
type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type listData struct {
	List  json.RawMessage `json:"list"`
	Total int             `json:"total"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()

	catalogService := catalog.NewService(store.Books, store.Authors, store.Publishers, store.Categories)
	memberService := member.NewService(store.Members, store.Staff)
	locker := lock.NewLocal()
	lendingService := lending.NewService(store.Books, store.Members, store.Loans, store.Reservations, store.Tx, locker)
	bookService := bookapp.NewService(catalogService, store.Tx, locker, nil)
	reviewService := appreview.NewService(store.Reviews, store.Books, store.Members, store.Loans, nil)
	discoveryService := discovery.NewService(store.Books, store.Members, store.Loans, store.Reviews)

	engine := New(gin.TestMode, zap.NewNop(), Handlers{
		Books:   handler.NewBookHandler(catalogService, bookService),
		Catalog: handler.NewCatalogHandler(catalogService),
		Members: handler.NewMemberHandler(memberService, lendingService, discoveryService),
		Lending: handler.NewLendingHandler(lendingService),
		Reviews: handler.NewReviewHandler(reviewService, discoveryService),
	})
	return &testServer{t: t, engine: engine}
}

func (s *testServer) do(method, path string, body interface{}) apiResponse {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var resp apiResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// ok 请求必须成功,并把data解析到out
func (s *testServer) ok(method, path string, body, out interface{}) {
	s.t.Helper()
	resp := s.do(method, path, body)
	require.Equal(s.t, 0, resp.Code, resp.Message)
	if out != nil {
		require.NoError(s.t, json.Unmarshal(resp.Data, out))
	}
}

// list 列表请求,返回total
func (s *testServer) list(path string, out interface{}) int {
	s.t.Helper()
	var data listData
	s.ok(http.MethodGet, path, nil, &data)
	if out != nil {
		require.NoError(s.t, json.Unmarshal(data.List, out))
	}
	return data.Total
}

type idOnly struct {
	ID uint `json:"id"`
}

// seedBook 建好作者、分类、出版社并新增一本书
func (s *testServer) seedBook(title string, copies int) uint {
	s.t.Helper()
	var author, category, publisher, book idOnly
	s.ok(http.MethodPost, "/api/v1/authors", map[string]interface{}{"name": "Frank Herbert"}, &author)
	s.ok(http.MethodPost, "/api/v1/categories", map[string]interface{}{"name": "Science Fiction"}, &category)
	s.ok(http.MethodPost, "/api/v1/publishers", map[string]interface{}{"name": "Chilton"}, &publisher)
	s.ok(http.MethodPost, "/api/v1/books", map[string]interface{}{
		"title":        title,
		"author_id":    author.ID,
		"category_id":  category.ID,
		"publisher_id": publisher.ID,
		"copies":       copies,
	}, &book)
	return book.ID
}

func (s *testServer) seedMember(name string) uint {
	s.t.Helper()
	var m idOnly
	s.ok(http.MethodPost, "/api/v1/members", map[string]interface{}{
		"name":  name,
		"email": fmt.Sprintf("%s@example.com", name),
	}, &m)
	return m.ID
}

func TestPing(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestBookRoutes(t *testing.T) {
	s := newTestServer(t)
	bookID := s.seedBook("Dune", 2)

	t.Run("查询详情", func(t *testing.T) {
		var book struct {
			Title           string `json:"title"`
			CopiesAvailable int    `json:"copies_available"`
			Available       bool   `json:"available"`
		}
		s.ok(http.MethodGet, fmt.Sprintf("/api/v1/books/%d", bookID), nil, &book)
		assert.Equal(t, "Dune", book.Title)
		assert.Equal(t, 2, book.CopiesAvailable)
		assert.True(t, book.Available)
	})

	t.Run("按书名搜索忽略大小写", func(t *testing.T) {
		assert.Equal(t, 1, s.list("/api/v1/books?title=dUN", nil))
		assert.Equal(t, 0, s.list("/api/v1/books?title=foundation", nil))
		assert.Equal(t, 1, s.list("/api/v1/books", nil))
	})

	t.Run("修改副本数重新计算可借状态", func(t *testing.T) {
		var book struct {
			Available bool `json:"available"`
		}
		s.ok(http.MethodPut, fmt.Sprintf("/api/v1/books/%d", bookID), map[string]interface{}{"copies": 0}, &book)
		assert.False(t, book.Available)
	})

	t.Run("按作者查图书", func(t *testing.T) {
		assert.Equal(t, 1, s.list("/api/v1/authors/1/books", nil))

		resp := s.do(http.MethodGet, "/api/v1/authors/99/books", nil)
		assert.Equal(t, 40406, resp.Code)
	})

	t.Run("引用不存在的作者", func(t *testing.T) {
		resp := s.do(http.MethodPost, "/api/v1/books", map[string]interface{}{
			"title": "X", "author_id": 99, "category_id": 1, "publisher_id": 1,
		})
		assert.Equal(t, 40406, resp.Code)
	})

	t.Run("参数错误", func(t *testing.T) {
		resp := s.do(http.MethodPost, "/api/v1/books", map[string]interface{}{"title": "X"})
		assert.Equal(t, 40901, resp.Code)
		assert.Contains(t, resp.Message, "参数错误")

		resp = s.do(http.MethodGet, "/api/v1/books/abc", nil)
		assert.Equal(t, 40900, resp.Code)
	})

	t.Run("删除后不存在", func(t *testing.T) {
		s.ok(http.MethodDelete, fmt.Sprintf("/api/v1/books/%d", bookID), nil, nil)

		resp := s.do(http.MethodGet, fmt.Sprintf("/api/v1/books/%d", bookID), nil)
		assert.Equal(t, 40402, resp.Code)
	})
}

func TestMemberRoutes(t *testing.T) {
	s := newTestServer(t)
	annID := s.seedMember("ann")

	t.Run("邮箱重复", func(t *testing.T) {
		resp := s.do(http.MethodPost, "/api/v1/members", map[string]interface{}{"name": "Ann2", "email": "ANN@example.com"})
		assert.Equal(t, 40007, resp.Code)
	})

	t.Run("邮箱格式错误", func(t *testing.T) {
		resp := s.do(http.MethodPost, "/api/v1/members", map[string]interface{}{"name": "Bob", "email": "bob"})
		assert.Equal(t, 40011, resp.Code)
	})

	t.Run("会员不存在", func(t *testing.T) {
		resp := s.do(http.MethodGet, "/api/v1/members/99", nil)
		assert.Equal(t, 40401, resp.Code)
	})

	t.Run("馆员与身份查询", func(t *testing.T) {
		var st idOnly
		s.ok(http.MethodPost, "/api/v1/staff", map[string]interface{}{
			"name": "Carol", "email": "carol@example.com", "position": "librarian",
		}, &st)
		assert.Equal(t, 1, s.list("/api/v1/staff", nil))

		var isStaff bool
		s.ok(http.MethodGet, "/api/v1/staff/check?email=carol@example.com", nil, &isStaff)
		assert.True(t, isStaff)
		s.ok(http.MethodGet, "/api/v1/staff/check?email=ann@example.com", nil, &isStaff)
		assert.False(t, isStaff)

		var identity struct {
			ID      uint `json:"id"`
			IsStaff bool `json:"is_staff"`
		}
		s.ok(http.MethodGet, "/api/v1/identities?email=ann@example.com", nil, &identity)
		assert.Equal(t, annID, identity.ID)
		assert.False(t, identity.IsStaff)

		s.ok(http.MethodGet, "/api/v1/identities?email=carol@example.com", nil, &identity)
		assert.Equal(t, st.ID, identity.ID)
		assert.True(t, identity.IsStaff)

		resp := s.do(http.MethodGet, "/api/v1/identities?email=nobody@example.com", nil)
		assert.Equal(t, 40400, resp.Code)

		resp = s.do(http.MethodGet, "/api/v1/identities", nil)
		assert.Equal(t, 40901, resp.Code)
	})
}

func TestLendingFlow(t *testing.T) {
	s := newTestServer(t)
	bookID := s.seedBook("Dune", 1)
	annID := s.seedMember("ann")
	bobID := s.seedMember("bob")

	var first struct {
		Reserved bool `json:"reserved"`
		Loan     struct {
			ID      uint   `json:"id"`
			Status  string `json:"status"`
			DueDate string `json:"due_date"`
		} `json:"loan"`
	}
	s.ok(http.MethodPost, "/api/v1/loans", map[string]interface{}{"member_id": annID, "book_id": bookID}, &first)
	require.False(t, first.Reserved)
	assert.Equal(t, "ACTIVE", first.Loan.Status)

	var due struct {
		DueDate string `json:"due_date"`
	}
	s.ok(http.MethodGet, "/api/v1/loans/due-date", nil, &due)
	assert.Equal(t, due.DueDate, first.Loan.DueDate)

	var second struct {
		Reserved    bool `json:"reserved"`
		Reservation struct {
			MemberID uint `json:"member_id"`
		} `json:"reservation"`
	}
	s.ok(http.MethodPost, "/api/v1/loans", map[string]interface{}{"member_id": bobID, "book_id": bookID}, &second)
	require.True(t, second.Reserved)
	assert.Equal(t, bobID, second.Reservation.MemberID)
	assert.Equal(t, 1, s.list(fmt.Sprintf("/api/v1/members/%d/reservations", bobID), nil))
	assert.Equal(t, 1, s.list("/api/v1/reservations", nil))

	var overdue struct {
		Overdue bool `json:"overdue"`
	}
	s.ok(http.MethodGet, fmt.Sprintf("/api/v1/members/%d/overdue", annID), nil, &overdue)
	assert.False(t, overdue.Overdue)
	assert.Equal(t, 1, s.list(fmt.Sprintf("/api/v1/members/%d/borrowed-books", annID), nil))

	var returned struct {
		Returned struct {
			Status     string `json:"status"`
			ReturnDate string `json:"return_date"`
		} `json:"returned"`
		Fulfilled *struct {
			MemberID uint `json:"member_id"`
		} `json:"fulfilled"`
	}
	s.ok(http.MethodPost, fmt.Sprintf("/api/v1/loans/%d/return", first.Loan.ID), nil, &returned)
	assert.Equal(t, "RETURNED", returned.Returned.Status)
	assert.NotEmpty(t, returned.Returned.ReturnDate)
	require.NotNil(t, returned.Fulfilled)
	assert.Equal(t, bobID, returned.Fulfilled.MemberID)

	t.Run("预约兑现后队列为空", func(t *testing.T) {
		assert.Equal(t, 0, s.list("/api/v1/reservations", nil))
		assert.Equal(t, 1, s.list(fmt.Sprintf("/api/v1/members/%d/loans", bobID), nil))
		assert.Equal(t, 0, s.list(fmt.Sprintf("/api/v1/members/%d/loans", annID), nil))
		assert.Equal(t, 1, s.list(fmt.Sprintf("/api/v1/members/%d/loans/history", annID), nil))
		assert.Equal(t, 1, s.list(fmt.Sprintf("/api/v1/members/%d/borrowed-books", annID), nil))
		assert.Equal(t, 2, s.list("/api/v1/loans", nil))
	})

	t.Run("重复归还", func(t *testing.T) {
		resp := s.do(http.MethodPost, fmt.Sprintf("/api/v1/loans/%d/return", first.Loan.ID), nil)
		assert.Equal(t, 40003, resp.Code)
	})

	t.Run("借阅记录不存在", func(t *testing.T) {
		resp := s.do(http.MethodPost, "/api/v1/loans/99/return", nil)
		assert.Equal(t, 40403, resp.Code)
	})

	t.Run("借书参数缺失", func(t *testing.T) {
		resp := s.do(http.MethodPost, "/api/v1/loans", map[string]interface{}{"member_id": annID})
		assert.Equal(t, 40901, resp.Code)
	})
}

func TestReviewRoutes(t *testing.T) {
	s := newTestServer(t)
	duneID := s.seedBook("Dune", 1)
	annID := s.seedMember("ann")
	bobID := s.seedMember("bob")

	// 同一作者/分类/出版社再加一本,用于推荐
	var messiah idOnly
	s.ok(http.MethodPost, "/api/v1/books", map[string]interface{}{
		"title": "Dune Messiah", "author_id": 1, "category_id": 1, "publisher_id": 1, "copies": 1,
	}, &messiah)

	s.ok(http.MethodPost, "/api/v1/loans", map[string]interface{}{"member_id": annID, "book_id": duneID}, nil)

	t.Run("未借阅不能评论", func(t *testing.T) {
		resp := s.do(http.MethodPost, fmt.Sprintf("/api/v1/books/%d/reviews", duneID),
			map[string]interface{}{"member_id": bobID, "rating": 5})
		assert.Equal(t, 40005, resp.Code)
	})

	t.Run("评分超出范围", func(t *testing.T) {
		resp := s.do(http.MethodPost, fmt.Sprintf("/api/v1/books/%d/reviews", duneID),
			map[string]interface{}{"member_id": annID, "rating": 6})
		assert.Equal(t, 40006, resp.Code)
	})

	var r1 idOnly
	s.ok(http.MethodPost, fmt.Sprintf("/api/v1/books/%d/reviews", duneID),
		map[string]interface{}{"member_id": annID, "rating": 5, "comment": "A classic."}, &r1)
	s.ok(http.MethodPost, fmt.Sprintf("/api/v1/books/%d/reviews", duneID),
		map[string]interface{}{"member_id": annID, "rating": 4}, nil)

	t.Run("平均评分", func(t *testing.T) {
		var rating struct {
			AverageRating float64 `json:"average_rating"`
		}
		s.ok(http.MethodGet, fmt.Sprintf("/api/v1/books/%d/rating", duneID), nil, &rating)
		assert.InDelta(t, 4.5, rating.AverageRating, 1e-9)

		s.ok(http.MethodGet, fmt.Sprintf("/api/v1/books/%d/rating", messiah.ID), nil, &rating)
		assert.Zero(t, rating.AverageRating)
	})

	t.Run("评分排行", func(t *testing.T) {
		var ranked []struct {
			Book struct {
				ID uint `json:"id"`
			} `json:"book"`
			ReviewCount int `json:"review_count"`
		}
		assert.Equal(t, 2, s.list("/api/v1/rankings/books", &ranked))
		assert.Equal(t, duneID, ranked[0].Book.ID)
		assert.Equal(t, 2, ranked[0].ReviewCount)
	})

	t.Run("推荐同分类未借过的书", func(t *testing.T) {
		var books []idOnly
		assert.Equal(t, 1, s.list(fmt.Sprintf("/api/v1/members/%d/recommendations", annID), &books))
		assert.Equal(t, messiah.ID, books[0].ID)

		assert.Equal(t, 0, s.list(fmt.Sprintf("/api/v1/members/%d/recommendations", bobID), nil))
	})

	t.Run("删除书评", func(t *testing.T) {
		assert.Equal(t, 2, s.list(fmt.Sprintf("/api/v1/books/%d/reviews", duneID), nil))

		s.ok(http.MethodDelete, fmt.Sprintf("/api/v1/reviews/%d", r1.ID), nil, nil)
		assert.Equal(t, 1, s.list("/api/v1/reviews", nil))

		resp := s.do(http.MethodDelete, fmt.Sprintf("/api/v1/reviews/%d", r1.ID), nil)
		assert.Equal(t, 40405, resp.Code)
	})
}
