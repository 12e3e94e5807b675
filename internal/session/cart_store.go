package session

import "sync"

// CartStore はログイン中ユーザーごとのカート（本IDの順序付き集合）。
// カートはセッション限りの状態なのでDBには置かない。
// グローバル変数にはせず、mainで作ってhandlerに注入する。
type CartStore struct {
	mu    sync.RWMutex
	carts map[int64][]int64
}

func NewCartStore() *CartStore {
	return &CartStore{carts: map[int64][]int64{}}
}

// Add は本をカートに入れる。既に入っていたら何もしないでfalse。
func (s *CartStore) Add(userID int64, bookID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.carts[userID] {
		if id == bookID {
			return false
		}
	}
	s.carts[userID] = append(s.carts[userID], bookID)
	return true
}

// Remove は本をカートから外す。無ければ何もしない。
func (s *CartStore) Remove(userID int64, bookID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.carts[userID]
	next := ids[:0]
	for _, id := range ids {
		if id != bookID {
			next = append(next, id)
		}
	}
	if len(next) == 0 {
		delete(s.carts, userID)
		return
	}
	s.carts[userID] = next
}

// Clear はカートを空にする（チェックアウト成功後に呼ぶ）。
func (s *CartStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

// IDs は追加順のスナップショットを返す。
func (s *CartStore) IDs(userID int64) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.carts[userID]
	out := make([]int64, len(ids))
	copy(out, ids)
	return out
}

// Count はナビのバッジ表示用の件数。
func (s *CartStore) Count(userID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.carts[userID])
}
