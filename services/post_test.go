package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantech-digital/corsite_api/dto"
	"github.com/vantech-digital/corsite_api/model"
	"github.com/vantech-digital/corsite_api/shared"
	"gorm.io/gorm"
)

// --- fakes ---

type fakePostStore struct {
	nextID      int
	createErr   error
	updateErr   error
	postsBySlug map[string]*model.Post
	postsByID   map[string]*model.Post

	listCalls int
	listOut   []model.Post
	listErr   error

	updated []*model.Post
	deleted []string
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{
		postsBySlug: map[string]*model.Post{},
		postsByID:   map[string]*model.Post{},
	}
}

func (f *fakePostStore) CreatePost(post *model.Post) (*model.Post, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	post.ID = fmt.Sprintf("post-%d", f.nextID)
	f.postsBySlug[post.Slug] = post
	f.postsByID[post.ID] = post
	return post, nil
}

func (f *fakePostStore) GetPost(id string) (*model.Post, error) {
	post, ok := f.postsByID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return post, nil
}

func (f *fakePostStore) GetPostBySlug(slug string) (*model.Post, error) {
	post, ok := f.postsBySlug[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return post, nil
}

func (f *fakePostStore) SlugExists(slug, excludeID string) (bool, error) {
	post, ok := f.postsBySlug[slug]
	if !ok {
		return false, nil
	}
	return post.ID != excludeID, nil
}

func (f *fakePostStore) ListPosts(published *bool, category string) ([]model.Post, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakePostStore) UpdatePost(post *model.Post) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, post)
	return nil
}

func (f *fakePostStore) DeletePost(id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakePostCache struct {
	values  map[string][]byte
	deleted []string
}

func newFakePostCache() *fakePostCache {
	return &fakePostCache{values: map[string][]byte{}}
}

func (f *fakePostCache) GetJSON(ctx context.Context, key string, out interface{}) error {
	raw, ok := f.values[key]
	if !ok {
		return ErrCacheMiss
	}
	return sonic.Unmarshal(raw, out)
}

func (f *fakePostCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := sonic.Marshal(value)
	if err != nil {
		return err
	}
	f.values[key] = raw
	return nil
}

func (f *fakePostCache) Delete(ctx context.Context, keys ...string) error {
	f.deleted = append(f.deleted, keys...)
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func newTestPostService() (*PostService, *fakePostStore, *fakePostCache) {
	store := newFakePostStore()
	cache := newFakePostCache()
	return &PostService{store: store, cache: cache}, store, cache
}

// --- slug derivation ---

func TestMakeSlug(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":          "hello-world",
		"Dự Án Điện 2024!":       "du-an-dien-2024",
		"Dự Án Điện Mặt Trời":    "du-an-dien-mat-troi",
		"  Tuyển Dụng -- 2026  ": "tuyen-dung-2026",
		"C++ & Go: A Comparison": "c-and-go-a-comparison",
	}

	for title, want := range cases {
		assert.Equal(t, want, MakeSlug(title), "title %q", title)
	}
}

// --- CRUD ---

func TestCreatePost_DerivesSlugAndDefaults(t *testing.T) {
	svc, _, _ := newTestPostService()

	post, err := svc.CreatePost(&dto.CreatePostRequest{
		Title:    "Dự Án Mới 2026",
		Content:  "body",
		Category: shared.PostCategoryProject,
	})
	require.NoError(t, err)

	assert.Equal(t, "du-an-moi-2026", post.Slug)
	assert.Equal(t, "vi", post.Language)
	assert.False(t, post.Published)
}

func TestCreatePost_DuplicateSlugConflicts(t *testing.T) {
	svc, _, _ := newTestPostService()

	_, err := svc.CreatePost(&dto.CreatePostRequest{
		Title:    "Annual Report",
		Content:  "first",
		Category: shared.PostCategoryNews,
	})
	require.NoError(t, err)

	// A different title that normalizes to the same slug still collides.
	_, err = svc.CreatePost(&dto.CreatePostRequest{
		Title:    "ANNUAL REPORT!",
		Content:  "second",
		Category: shared.PostCategoryNews,
	})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestCreatePost_SlugRaceMapsToConflict(t *testing.T) {
	svc, store, _ := newTestPostService()

	// SlugExists saw nothing, but a concurrent insert won the race and
	// the unique index fired on the write.
	store.createErr = errors.New("UNIQUE constraint failed: posts.slug")

	_, err := svc.CreatePost(&dto.CreatePostRequest{
		Title:    "Raced Title",
		Content:  "body",
		Category: shared.PostCategoryNews,
	})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Equal(t, "A post with this title already exists", appErr.Message)
}

func TestCreatePost_OtherWriteErrorStays500(t *testing.T) {
	svc, store, _ := newTestPostService()
	store.createErr = errors.New("disk I/O error")

	_, err := svc.CreatePost(&dto.CreatePostRequest{
		Title:    "Some Title",
		Content:  "body",
		Category: shared.PostCategoryNews,
	})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.StatusCode)
}

func TestUpdatePost_SlugRaceMapsToConflict(t *testing.T) {
	svc, store, _ := newTestPostService()

	post, err := svc.CreatePost(&dto.CreatePostRequest{
		Title:    "Original",
		Content:  "body",
		Category: shared.PostCategoryNews,
	})
	require.NoError(t, err)

	store.updateErr = errors.New(`ERROR: duplicate key value violates unique constraint "idx_posts_slug"`)

	newTitle := "Raced Update"
	_, err = svc.UpdatePost(post.ID, &dto.UpdatePostRequest{Title: &newTitle})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Equal(t, "A post with this title already exists", appErr.Message)
}

func TestCreatePost_UnknownCategoryRejected(t *testing.T) {
	svc, store, _ := newTestPostService()

	_, err := svc.CreatePost(&dto.CreatePostRequest{
		Title:    "Some Title",
		Content:  "body",
		Category: "gossip",
	})
	require.Error(t, err)
	assert.Empty(t, store.postsByID)
}

func TestUpdatePost_TitleChangeReslugs(t *testing.T) {
	svc, store, _ := newTestPostService()

	post, err := svc.CreatePost(&dto.CreatePostRequest{
		Title:    "Old Title",
		Content:  "body",
		Category: shared.PostCategoryNews,
	})
	require.NoError(t, err)

	newTitle := "Brand New Title"
	updated, err := svc.UpdatePost(post.ID, &dto.UpdatePostRequest{Title: &newTitle})
	require.NoError(t, err)

	assert.Equal(t, "brand-new-title", updated.Slug)
	require.Len(t, store.updated, 1)
}

func TestUpdatePost_SameTitleKeepsSlug(t *testing.T) {
	svc, _, _ := newTestPostService()

	post, err := svc.CreatePost(&dto.CreatePostRequest{
		Title:    "Stable Title",
		Content:  "body",
		Category: shared.PostCategoryNews,
	})
	require.NoError(t, err)

	title := "Stable Title"
	excerpt := "new excerpt"
	updated, err := svc.UpdatePost(post.ID, &dto.UpdatePostRequest{Title: &title, Excerpt: &excerpt})
	require.NoError(t, err)

	assert.Equal(t, "stable-title", updated.Slug)
	assert.Equal(t, "new excerpt", updated.Excerpt)
}

func TestUpdatePost_ConflictingTitleRejected(t *testing.T) {
	svc, _, _ := newTestPostService()

	_, err := svc.CreatePost(&dto.CreatePostRequest{
		Title:    "First Post",
		Content:  "body",
		Category: shared.PostCategoryNews,
	})
	require.NoError(t, err)

	second, err := svc.CreatePost(&dto.CreatePostRequest{
		Title:    "Second Post",
		Content:  "body",
		Category: shared.PostCategoryNews,
	})
	require.NoError(t, err)

	clash := "First Post"
	_, err = svc.UpdatePost(second.ID, &dto.UpdatePostRequest{Title: &clash})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestGetPostBySlug_NotFound(t *testing.T) {
	svc, _, _ := newTestPostService()

	_, err := svc.GetPostBySlug("missing")
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

// --- caching ---

func TestListPosts_PublishedListingIsCached(t *testing.T) {
	svc, store, _ := newTestPostService()
	store.listOut = []model.Post{{ID: "post-1", Title: "Cached"}}

	published := true
	req := dto.PostListRequest{Published: &published}

	first, err := svc.ListPosts(req)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, store.listCalls)

	// Second read is served from cache, the store is not consulted.
	second, err := svc.ListPosts(req)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "Cached", second[0].Title)
	assert.Equal(t, 1, store.listCalls)
}

func TestListPosts_UnpublishedListingBypassesCache(t *testing.T) {
	svc, store, cache := newTestPostService()
	store.listOut = []model.Post{{ID: "post-1"}}

	_, err := svc.ListPosts(dto.PostListRequest{})
	require.NoError(t, err)

	published := false
	_, err = svc.ListPosts(dto.PostListRequest{Published: &published})
	require.NoError(t, err)

	assert.Equal(t, 2, store.listCalls)
	assert.Empty(t, cache.values)
}

func TestListPosts_StoreError(t *testing.T) {
	svc, store, _ := newTestPostService()
	store.listErr = errors.New("db down")

	_, err := svc.ListPosts(dto.PostListRequest{})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.StatusCode)
}

func TestWritesInvalidateCache(t *testing.T) {
	svc, store, cache := newTestPostService()
	store.listOut = []model.Post{{ID: "post-1"}}

	published := true
	_, err := svc.ListPosts(dto.PostListRequest{Published: &published})
	require.NoError(t, err)
	require.NotEmpty(t, cache.values)

	post, err := svc.CreatePost(&dto.CreatePostRequest{
		Title:    "Fresh Post",
		Content:  "body",
		Category: shared.PostCategoryNews,
	})
	require.NoError(t, err)
	assert.Empty(t, cache.values)

	// Delete invalidates too.
	cache.deleted = nil
	require.NoError(t, svc.DeletePost(post.ID))
	assert.Contains(t, cache.deleted, postCacheKeyPrefix+"all")
}
