package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/services"
	"github.com/date-course/api-go/types"
	"github.com/date-course/api-go/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withUser stands in for AuthMiddleware.
func withUser(userID uint, isAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(utils.UserContextKey), &utils.UserClaims{UserID: userID, IsAdmin: isAdmin})
		c.Next()
	}
}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

type fakeCourses struct {
	created   types.CourseRequest
	actor     services.Actor
	filter    types.CourseFilter
	createErr error
}

func (f *fakeCourses) Create(_ context.Context, actor services.Actor, req types.CourseRequest) (uint, error) {
	f.actor, f.created = actor, req
	return 42, f.createErr
}

func (f *fakeCourses) ListByUser(context.Context, uint) ([]models.Course, error) {
	return []models.Course{}, nil
}

func (f *fakeCourses) List(_ context.Context, filter types.CourseFilter) ([]models.Course, error) {
	f.filter = filter
	return []models.Course{{ID: 1, CourseName: "성수 데이트"}}, nil
}

func (f *fakeCourses) Get(_ context.Context, id uint) (*models.Course, error) {
	return nil, fmt.Errorf("course %w", services.ErrNotFound)
}

func (f *fakeCourses) ReplaceSchedules(context.Context, services.Actor, uint, []types.ScheduleItem) ([]models.CourseSchedule, error) {
	return nil, nil
}

func (f *fakeCourses) Delete(context.Context, services.Actor, uint) error {
	return services.ErrForbidden
}

func courseRouter(f *fakeCourses) *gin.Engine {
	cc := NewCourseController(f)
	r := gin.New()
	r.GET("/course/allcourse", cc.GetAllCourses)
	r.GET("/course/courses/:id", cc.GetCourse)
	authed := r.Group("/course", withUser(3, false))
	authed.POST("/courses", cc.CreateCourse)
	authed.DELETE("/courses/:id", cc.DeleteCourse)
	return r
}

func TestCreateCourseDefaultsUserToCaller(t *testing.T) {
	f := &fakeCourses{}
	w := do(courseRouter(f), http.MethodPost, "/course/courses", gin.H{"course_name": "한강 산책"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(42), decode(t, w)["course_id"])
	assert.Equal(t, uint(3), f.created.UserID)
	assert.Equal(t, services.Actor{UserID: 3}, f.actor)
}

func TestCreateCourseValidationIs400(t *testing.T) {
	f := &fakeCourses{createErr: &services.ValidationError{Field: "course_name", Message: "course_name is required"}}
	w := do(courseRouter(f), http.MethodPost, "/course/courses", gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "course_name is required", body["error"])
	assert.Equal(t, "course_name", body["field"])
}

func TestCreateCourseInternalErrorIsHidden(t *testing.T) {
	f := &fakeCourses{createErr: errors.New("pq: relation does not exist")}
	w := do(courseRouter(f), http.MethodPost, "/course/courses", gin.H{"course_name": "x"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "relation")
}

func TestGetAllCoursesReadsBothListForms(t *testing.T) {
	f := &fakeCourses{}
	w := do(courseRouter(f), http.MethodGet, "/course/allcourse?place=%EC%B9%B4%ED%8E%98&with_who=%EC%97%B0%EC%9D%B8&with_who[]=%EC%B9%9C%EA%B5%AC&purpose[]=%EB%8D%B0%EC%9D%B4%ED%8A%B8", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "카페", f.filter.Place)
	assert.Equal(t, []string{"연인", "친구"}, f.filter.WithWho)
	assert.Equal(t, []string{"데이트"}, f.filter.Purpose)
}

func TestCourseErrorsMapToStatus(t *testing.T) {
	r := courseRouter(&fakeCourses{})

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/course/courses/5", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/course/courses/abc", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/course/courses/5", nil).Code)
}

type fakeShop struct {
	userID, itemID uint
	purchaseErr    error
}

func (f *fakeShop) ListItems(context.Context, string) ([]models.ShopItem, error) { return nil, nil }
func (f *fakeShop) CreateItem(context.Context, types.ShopItemRequest) (*models.ShopItem, error) {
	return nil, nil
}
func (f *fakeShop) DeleteItem(context.Context, uint) error { return nil }
func (f *fakeShop) GetItem(_ context.Context, id uint) (*models.ShopItem, error) {
	if id != 3 {
		return nil, fmt.Errorf("item %w", services.ErrNotFound)
	}
	return &models.ShopItem{ID: 3, Category: "coupon", Name: "커피 쿠폰", PricePoints: 300}, nil
}
func (f *fakeShop) UpdateItem(_ context.Context, id uint, req types.ShopItemRequest) (*models.ShopItem, error) {
	f.itemID = id
	return &models.ShopItem{ID: id, Category: req.Category, Name: req.Name, PricePoints: req.PricePoints}, nil
}
func (f *fakeShop) Purchases(context.Context, uint) ([]models.ShopPurchase, error) {
	return []models.ShopPurchase{}, nil
}

func (f *fakeShop) Purchase(_ context.Context, _ services.Actor, userID, itemID uint) (*models.ShopPurchase, error) {
	f.userID, f.itemID = userID, itemID
	if f.purchaseErr != nil {
		return nil, f.purchaseErr
	}
	return &models.ShopPurchase{ID: 1, UserID: userID, ItemID: itemID, Barcode: "ABC"}, nil
}

func shopRouter(f *fakeShop) *gin.Engine {
	sc := NewShopController(f)
	r := gin.New()
	authed := r.Group("/shop", withUser(8, false))
	authed.POST("/purchase", sc.Purchase)
	authed.GET("/purchases/:userId", sc.GetPurchases)
	return r
}

func TestPurchaseUsesCaller(t *testing.T) {
	f := &fakeShop{}
	w := do(shopRouter(f), http.MethodPost, "/shop/purchase", gin.H{"item_id": 3})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(8), f.userID)
	assert.Equal(t, uint(3), f.itemID)
}

func TestPurchaseInsufficientPointsIs409(t *testing.T) {
	f := &fakeShop{purchaseErr: services.ErrInsufficientPoints}
	w := do(shopRouter(f), http.MethodPost, "/shop/purchase", gin.H{"item_id": 3})
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Equal(t, http.StatusBadRequest, do(shopRouter(f), http.MethodPost, "/shop/purchase", gin.H{}).Code)
}

func TestPurchasesOfAnotherUserIsForbidden(t *testing.T) {
	r := shopRouter(&fakeShop{})
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/shop/purchases/9", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/shop/purchases/8", nil).Code)
}

type fakeModeration struct {
	resolution types.Resolution
}

func (f *fakeModeration) PendingPlaces(context.Context) ([]models.Place, error) { return nil, nil }
func (f *fakeModeration) ApprovePlace(context.Context, uint) (*models.Place, error) {
	return nil, fmt.Errorf("place already approved: %w", services.ErrConflict)
}
func (f *fakeModeration) RejectPlace(context.Context, uint) error { return nil }
func (f *fakeModeration) ListPlaceReports(context.Context) ([]models.PlaceReportDetail, error) {
	return nil, nil
}
func (f *fakeModeration) ListPostReports(context.Context) ([]models.PostReport, error) {
	return nil, nil
}

func (f *fakeModeration) ResolvePlaceReport(_ context.Context, id uint, res types.Resolution) (*models.PlaceReport, error) {
	f.resolution = res
	return &models.PlaceReport{ID: id, Status: models.ReportResolved}, nil
}

func (f *fakeModeration) ResolvePostReport(_ context.Context, id uint, res types.Resolution) (*models.PostReport, error) {
	f.resolution = res
	return &models.PostReport{ID: id, Status: models.ReportResolved}, nil
}

func TestResolvePlaceReportFallsBackToCallerAsAdmin(t *testing.T) {
	f := &fakeModeration{}
	ac := NewAdminController(f, nil)
	r := gin.New()
	r.PATCH("/admin/place-reports/:reportId", withUser(1, true), ac.ResolvePlaceReport)

	w := do(r, http.MethodPatch, "/admin/place-reports/2", gin.H{"delete_place": true, "message": "삭제했습니다"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.Resolution{DeleteSubject: true, AdminID: 1, Message: "삭제했습니다"}, f.resolution)

	w = do(r, http.MethodPatch, "/admin/place-reports/2", gin.H{"message": "확인", "user_id": 5})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(5), f.resolution.AdminID)
	assert.False(t, f.resolution.DeleteSubject)
}

func TestResolveReportWithEmptyBodyUsesDefaults(t *testing.T) {
	f := &fakeModeration{}
	ac := NewAdminController(f, nil)
	r := gin.New()
	r.PATCH("/admin/place-reports/:reportId", withUser(1, true), ac.ResolvePlaceReport)
	r.PATCH("/admin/post-reports/:reportId", withUser(1, true), ac.ResolvePostReport)

	w := do(r, http.MethodPatch, "/admin/place-reports/2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.Resolution{AdminID: 1}, f.resolution)

	f.resolution = types.Resolution{}
	w = do(r, http.MethodPatch, "/admin/post-reports/4", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.Resolution{AdminID: 1}, f.resolution)

	req := httptest.NewRequest(http.MethodPatch, "/admin/post-reports/4", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApproveTwiceIs409(t *testing.T) {
	ac := NewAdminController(&fakeModeration{}, nil)
	r := gin.New()
	r.POST("/admin/place-requests/:id/approve", ac.ApprovePlace)

	assert.Equal(t, http.StatusConflict, do(r, http.MethodPost, "/admin/place-requests/3/approve", nil).Code)
}

type fakeLedger struct{}

func (fakeLedger) History(context.Context, uint) ([]models.PointHistory, error) {
	return []models.PointHistory{{ID: 1, UserID: 2, Action: "장소 찜 보상", Points: 10}}, nil
}

func (fakeLedger) Balance(_ context.Context, userID uint) (int, error) {
	if userID == 99 {
		return 0, fmt.Errorf("user %w", services.ErrNotFound)
	}
	return 10, nil
}

func TestPointsEndpoints(t *testing.T) {
	pc := NewPointsController(fakeLedger{})
	r := gin.New()
	r.GET("/points/balance/:userId", withUser(2, false), pc.GetBalance)
	r.GET("/points/history/:userId", withUser(2, false), pc.GetHistory)
	r.GET("/admin/balance/:userId", withUser(1, true), pc.GetBalance)

	w := do(r, http.MethodGet, "/points/balance/2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":2,"points":10}`, w.Body.String())

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/points/history/3", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/points/history/2", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/admin/balance/99", nil).Code)
}

type fakeCollections struct {
	CollectionService
}

func (fakeCollections) ListByUser(_ context.Context, userID uint) ([]models.Collection, error) {
	return []models.Collection{
		{ID: 1, UserID: userID, CollectionName: types.DEFAULT_COLLECTION_NAME},
		{ID: 2, UserID: userID, CollectionName: "공개", IsPublic: true},
	}, nil
}

func TestUserCollectionsHidePrivateFromOthers(t *testing.T) {
	cc := NewCollectionController(fakeCollections{})
	r := gin.New()
	r.GET("/mine/:user_id", withUser(4, false), cc.GetUserCollections)
	r.GET("/theirs/:user_id", cc.GetUserCollections)

	var owner struct{ Collections []models.Collection }
	require.NoError(t, json.Unmarshal(do(r, http.MethodGet, "/mine/4", nil).Body.Bytes(), &owner))
	assert.Len(t, owner.Collections, 2)

	var stranger struct{ Collections []models.Collection }
	require.NoError(t, json.Unmarshal(do(r, http.MethodGet, "/theirs/4", nil).Body.Bytes(), &stranger))
	require.Len(t, stranger.Collections, 1)
	assert.Equal(t, uint(2), stranger.Collections[0].ID)
}

type fakeAccounts struct{}

func (fakeAccounts) NicknameAvailable(_ context.Context, nickname string) (bool, error) {
	return nickname != "taken", nil
}

func (fakeAccounts) EmailAvailable(_ context.Context, email string) (bool, error) {
	if email == "" {
		return false, &services.ValidationError{Field: "email", Message: "email is required"}
	}
	return true, nil
}

func TestAvailabilityChecks(t *testing.T) {
	vc := NewValidationController(fakeAccounts{})
	r := gin.New()
	r.GET("/auth/check-nickname", vc.CheckNickname)
	r.GET("/auth/check-email", vc.CheckEmail)

	assert.JSONEq(t, `{"exists":true,"available":false}`, do(r, http.MethodGet, "/auth/check-nickname?nickname=taken", nil).Body.String())
	assert.JSONEq(t, `{"exists":false,"available":true}`, do(r, http.MethodGet, "/auth/check-email?email=a@b.c", nil).Body.String())
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/auth/check-email", nil).Code)
}

func TestPointsRules(t *testing.T) {
	pc := NewPointsController(fakeLedger{})
	r := gin.New()
	r.GET("/points/rules", pc.GetRules)

	w := do(r, http.MethodGet, "/points/rules", nil)
	assert.JSONEq(t, `{"rules":{"favorite_reward":10,"place_approval_reward":50}}`, w.Body.String())
}

func TestShopAdminItemEndpoints(t *testing.T) {
	f := &fakeShop{}
	sc := NewShopController(f)
	r := gin.New()
	admin := r.Group("/shop/admin", withUser(1, true))
	admin.GET("/items/:id", sc.GetItem)
	admin.PATCH("/items/:id", sc.UpdateItem)

	w := do(r, http.MethodGet, "/shop/admin/items/3", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "커피 쿠폰", decode(t, w)["item"].(map[string]interface{})["name"])
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/shop/admin/items/4", nil).Code)

	w = do(r, http.MethodPatch, "/shop/admin/items/3", gin.H{"category": "coupon", "name": "라떼", "price_points": 350})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(3), f.itemID)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, "/shop/admin/items/3", gin.H{"name": "라떼"}).Code)
}

type fakeChat struct {
	actor services.Actor
	sent  types.MessageRequest
}

func (f *fakeChat) Rooms(_ context.Context, actor services.Actor, userID uint) ([]models.ChatRoomSummary, error) {
	f.actor = actor
	if actor.UserID != userID {
		return nil, services.ErrForbidden
	}
	return []models.ChatRoomSummary{{RoomID: 7}}, nil
}

func (f *fakeChat) Messages(_ context.Context, actor services.Actor, roomID uint) ([]models.MessageDetail, error) {
	f.actor = actor
	return []models.MessageDetail{{ID: 100, SenderID: 1, SenderNickname: "관리자", Content: "처리 완료"}}, nil
}

func (f *fakeChat) StartDirect(_ context.Context, actor services.Actor, req types.DirectRoomRequest) (uint, error) {
	return 12, nil
}

func (f *fakeChat) Send(_ context.Context, actor services.Actor, roomID uint, req types.MessageRequest) (*models.Message, error) {
	f.sent = req
	return &models.Message{ID: 101, RoomID: roomID, SenderID: req.SenderID, Content: req.Content}, nil
}

func TestChatEndpoints(t *testing.T) {
	f := &fakeChat{}
	cc := NewChatController(f)
	r := gin.New()
	g := r.Group("/chat", withUser(3, false))
	g.POST("/rooms/1on1", cc.StartDirect)
	g.GET("/rooms/user/:userId", cc.GetUserRooms)
	g.GET("/rooms/:roomId/messages", cc.GetMessages)
	g.POST("/rooms/:roomId/messages", cc.PostMessage)

	w := do(r, http.MethodGet, "/chat/rooms/7/messages", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["messages"], 1)
	assert.Equal(t, services.Actor{UserID: 3}, f.actor)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/chat/rooms/user/3", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/chat/rooms/user/4", nil).Code)

	w = do(r, http.MethodPost, "/chat/rooms/1on1", gin.H{"userA": 3, "userB": 9})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(12), decode(t, w)["roomId"])

	w = do(r, http.MethodPost, "/chat/rooms/7/messages", gin.H{"content": "고마워요"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(3), f.sent.SenderID)
}

type fakePosts struct {
	created types.PostRequest
	filter  types.PostFilter
}

func (f *fakePosts) Create(_ context.Context, _ services.Actor, req types.PostRequest) (*models.Post, error) {
	f.created = req
	return &models.Post{ID: 21, UserID: req.UserID, Title: req.Title}, nil
}

func (f *fakePosts) List(_ context.Context, filter types.PostFilter) ([]models.PostDetail, error) {
	f.filter = filter
	return []models.PostDetail{}, nil
}

func (f *fakePosts) Get(_ context.Context, id uint) (*models.Post, error) {
	return nil, fmt.Errorf("post %w", services.ErrNotFound)
}

func (f *fakePosts) Delete(context.Context, services.Actor, uint) error {
	return services.ErrForbidden
}

func TestBoardEndpoints(t *testing.T) {
	f := &fakePosts{}
	bc := NewBoardController(f)
	r := gin.New()
	g := r.Group("/boards", withUser(3, false))
	g.GET("", bc.GetPosts)
	g.POST("", bc.CreatePost)
	g.GET("/posts/:postId", bc.GetPost)
	g.DELETE("/:id", bc.DeletePost)

	w := do(r, http.MethodPost, "/boards", gin.H{"title": "성수 후기"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(3), f.created.UserID)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/boards", gin.H{}).Code)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/boards?search=%EC%84%B1%EC%88%98&user_id=3", nil).Code)
	assert.Equal(t, types.PostFilter{Search: "성수", UserID: 3}, f.filter)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/boards/posts/21", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/boards/21", nil).Code)
}
