package assets

import (
	"errors"
	"sync"

	"github.com/gogpu/assets/audio"
	"github.com/gogpu/assets/gpucore"
)

// mockTextureBackend records create/destroy calls. The mutex is only there
// so tests can assert from the main goroutine while Update runs elsewhere;
// the loader itself always calls backends from the Update goroutine.
type mockTextureBackend struct {
	mu        sync.Mutex
	nextID    gpucore.TextureID
	created   int
	destroyed int
	live      map[gpucore.TextureID][2]int // id → width, height
	failWith  error
}

func newMockTextureBackend() *mockTextureBackend {
	return &mockTextureBackend{live: make(map[gpucore.TextureID][2]int)}
}

func (m *mockTextureBackend) CreateTexture(width, height int, _ gpucore.TextureFormat, pixels []byte) (gpucore.TextureID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return gpucore.InvalidID, m.failWith
	}
	if len(pixels) != width*height*4 {
		return gpucore.InvalidID, errors.New("mock: pixel buffer size mismatch")
	}
	m.nextID++
	m.created++
	m.live[m.nextID] = [2]int{width, height}
	return m.nextID, nil
}

func (m *mockTextureBackend) DestroyTexture(id gpucore.TextureID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.live[id]; ok {
		delete(m.live, id)
		m.destroyed++
	}
}

// mockAudioBackend records create/destroy calls for sounds and music.
type mockAudioBackend struct {
	mu       sync.Mutex
	nextID   uint64
	sounds   int
	music    int
	failWith error
}

func (m *mockAudioBackend) CreateSound(data []byte) (audio.SoundID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return audio.InvalidID, m.failWith
	}
	if len(data) == 0 {
		return audio.InvalidID, errors.New("mock: empty sound data")
	}
	m.nextID++
	m.sounds++
	return audio.SoundID(m.nextID), nil
}

func (m *mockAudioBackend) CreateMusic(data []byte) (audio.MusicID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return audio.InvalidID, m.failWith
	}
	m.nextID++
	m.music++
	return audio.MusicID(m.nextID), nil
}

func (m *mockAudioBackend) DestroySound(audio.SoundID) {}
func (m *mockAudioBackend) DestroyMusic(audio.MusicID) {}
