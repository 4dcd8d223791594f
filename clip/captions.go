package clip

// captionPool is the fixed set of captions burned into clips. One is
// chosen uniformly at random per run.
var captionPool = []string{
	"wait for it...",
	"this is the good part",
	"absolute cinema",
	"no context needed",
	"somebody clip that... oh wait",
	"caught in 4k",
	"the algorithm sent me here",
	"trust me, this matters",
	"out of context masterpiece",
	"peak content detected",
	"historians will study this moment",
	"straight to the highlight reel",
}
