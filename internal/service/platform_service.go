package service

import (
	"fmt"

	config "github.com/chrisrehm/theo/configs"
)

// PlatformService is the poster dispatch table: a flat mapping from
// platform name to its client, built once at startup. Every platform in
// the roster is always present; whether it does anything useful depends
// only on configuration.
type PlatformService interface {
	Get(name string) (SocialPlatform, error)
	Names() []string
	All() []SocialPlatform
	Configured() []SocialPlatform
}

type platformService struct {
	order     []string
	platforms map[string]SocialPlatform
}

func NewPlatformService(cfg config.Config) PlatformService {
	s := &platformService{platforms: make(map[string]SocialPlatform)}

	s.register(NewMastodonService(cfg))
	s.register(newStubService("instagram", "Instagram", 2200, true))
	s.register(newStubService("facebook", "Facebook", 63206, true))
	s.register(NewBlueskyService(cfg))
	s.register(newStubService("linkedin", "LinkedIn", 3000, true))
	s.register(newStubService("tiktok", "TikTok", 2200, true))
	s.register(newStubService("youtube", "YouTube", 5000, true))
	s.register(NewCaraService(cfg))
	s.register(newStubService("threads", "Threads", 500, true))
	s.register(NewPixelfedService(cfg))
	s.register(newStubService("tumblr", "Tumblr", 4096, true))
	s.register(NewFlickrService(cfg))
	s.register(newStubService("upscrolled", "UpScrolled", 2200, true))

	return s
}

func (s *platformService) register(p SocialPlatform) {
	s.order = append(s.order, p.Name())
	s.platforms[p.Name()] = p
}

func (s *platformService) Get(name string) (SocialPlatform, error) {
	p, ok := s.platforms[name]
	if !ok {
		return nil, fmt.Errorf("unknown social media platform: %s", name)
	}
	return p, nil
}

func (s *platformService) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

func (s *platformService) All() []SocialPlatform {
	all := make([]SocialPlatform, 0, len(s.order))
	for _, name := range s.order {
		all = append(all, s.platforms[name])
	}
	return all
}

func (s *platformService) Configured() []SocialPlatform {
	var configured []SocialPlatform
	for _, name := range s.order {
		if p := s.platforms[name]; !p.IsStub() && p.IsConfigured() {
			configured = append(configured, p)
		}
	}
	return configured
}
