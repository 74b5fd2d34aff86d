package service

import "geeknews/internal/domain/feed/model"

// seedContent 首次访问时写入的示例内容：2 条新闻 + 1 条视频
func seedContent(now int64) []model.ContentItem {
	return []model.ContentItem{
		{
			ID:          "1",
			Title:       "New season of Arcane confirmed!",
			Description: "Netflix confirmed today that the second season of Arcane is in fast-tracked production. League of Legends fans can expect more depth in the story of Vi and Jinx. The animation promises to keep the visual bar that shocked the world.",
			ImageURL:    "https://picsum.photos/800/400?random=1",
			Category:    model.CategoryNews,
			Timestamp:   now - 100000,
			Author:      "Admin",
			Tags:        []string{"LoL", "Netflix", "Arcane"},
		},
		{
			ID:          "2",
			Title:       "Review: the new quantum processor",
			Description: "We tested the new chip that promises to revolutionize gaming. Does it run Crysis? The answer may surprise you. The architecture built on unstable qubits brings thermal challenges, but ray tracing performance is absurd.",
			ImageURL:    "https://picsum.photos/800/400?random=2",
			Category:    model.CategoryNews,
			Timestamp:   now - 200000,
			Author:      "Admin",
			Tags:        []string{"Hardware", "Tech", "Quantum"},
		},
		{
			ID:          "3",
			Title:       "Exclusive gameplay: GTA VI",
			Description: "Frame by frame analysis of the leaked trailer. What can we expect from the water physics and the NPCs? Our experts discuss everything in this video.",
			ImageURL:    "https://picsum.photos/800/400?random=3",
			Category:    model.CategoryVideo,
			VideoURL:    "https://www.youtube.com/embed/dQw4w9WgXcQ",
			Timestamp:   now,
			Author:      "Admin",
			Tags:        []string{"GTA", "Rockstar", "Games"},
		},
	}
}
