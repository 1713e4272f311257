package generation

import "time"

// Tool describes one AI tool family: its credit cost, the latency the
// demo generator simulates, and the fixed image pool demo results are
// drawn from.
type Tool struct {
	ID        string
	Name      string
	Cost      int64
	DemoDelay time.Duration
	DemoPool  []string
}

var tools = map[string]Tool{
	"face-swap": {
		ID: "face-swap", Name: "Face Swap", Cost: 1, DemoDelay: 2500 * time.Millisecond,
		DemoPool: []string{
			"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=800&h=800&fit=crop",
			"https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=800&h=800&fit=crop",
			"https://images.unsplash.com/photo-1539571696357-5a69c17a67c6?w=800&h=800&fit=crop",
		},
	},
	"avatar": {
		ID: "avatar", Name: "AI Avatar", Cost: 2, DemoDelay: 3000 * time.Millisecond,
		DemoPool: []string{
			"https://images.unsplash.com/photo-1544005313-94ddf0286df2?w=800&h=800&fit=crop",
			"https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=800&h=800&fit=crop",
			"https://images.unsplash.com/photo-1517841905240-472988babdf9?w=800&h=800&fit=crop",
		},
	},
	"duo-portrait": {
		ID: "duo-portrait", Name: "Duo Portrait", Cost: 3, DemoDelay: 3500 * time.Millisecond,
		DemoPool: []string{
			"https://images.unsplash.com/photo-1516589178581-6cd7833ae3b2?w=800&h=800&fit=crop",
			"https://images.unsplash.com/photo-1522771739844-6a9f6d5f14af?w=800&h=800&fit=crop",
			"https://images.unsplash.com/photo-1505935428862-770b6f24f629?w=800&h=800&fit=crop",
		},
	},
	"poster": {
		ID: "poster", Name: "Poster Maker", Cost: 3, DemoDelay: 3000 * time.Millisecond,
		DemoPool: []string{
			"https://images.unsplash.com/photo-1594908900066-3f47337549d8?w=800&h=1200&fit=crop",
			"https://images.unsplash.com/photo-1574267432644-f610fa10fc8f?w=800&h=1200&fit=crop",
			"https://images.unsplash.com/photo-1598899134739-24c46f58b8c0?w=800&h=1200&fit=crop",
		},
	},
	"age-transform": {
		ID: "age-transform", Name: "Age Transform", Cost: 2, DemoDelay: 2800 * time.Millisecond,
		DemoPool: []string{
			"https://images.unsplash.com/photo-1531746020798-e6953c6e8e04?w=800&h=800&fit=crop",
			"https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=800&h=800&fit=crop",
			"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=800&h=800&fit=crop",
		},
	},
	"enhance": {
		ID: "enhance", Name: "HD Enhance", Cost: 1, DemoDelay: 2000 * time.Millisecond,
		DemoPool: []string{
			"https://images.unsplash.com/photo-1524504388940-b1c1722653e1?w=800&h=800&fit=crop&q=100",
			"https://images.unsplash.com/photo-1529626455594-4ff0802cfb7e?w=800&h=800&fit=crop&q=100",
			"https://images.unsplash.com/photo-1488426862026-3ee34a7d66df?w=800&h=800&fit=crop&q=100",
		},
	},
}

// LookupTool resolves a tool id. The second return is false for ids
// outside the launch set.
func LookupTool(id string) (Tool, bool) {
	t, ok := tools[id]
	return t, ok
}

// Tools returns the launch tool set.
func Tools() []Tool {
	out := make([]Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, t)
	}
	return out
}
