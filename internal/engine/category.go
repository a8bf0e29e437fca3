package engine

import (
	"path"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Category groups files by extension for coloring.
type Category string

const (
	CategorySource Category = "source"
	CategoryScript Category = "script"
	CategoryWeb    Category = "web"
	CategoryStyle  Category = "style"
	CategoryData   Category = "data"
	CategoryDocs   Category = "docs"
	CategoryImage  Category = "image"
	CategoryBuild  Category = "build"
	CategoryDir    Category = "dir"
	CategoryOther  Category = "other"
)

var categoryByExt = map[string]Category{
	".go":    CategorySource,
	".c":     CategorySource,
	".h":     CategorySource,
	".cc":    CategorySource,
	".cpp":   CategorySource,
	".rs":    CategorySource,
	".java":  CategorySource,
	".kt":    CategorySource,
	".swift": CategorySource,
	".cs":    CategorySource,

	".py":  CategoryScript,
	".rb":  CategoryScript,
	".sh":  CategoryScript,
	".pl":  CategoryScript,
	".lua": CategoryScript,

	".js":  CategoryWeb,
	".jsx": CategoryWeb,
	".ts":  CategoryWeb,
	".tsx": CategoryWeb,
	".vue": CategoryWeb,

	".html": CategoryStyle,
	".css":  CategoryStyle,
	".scss": CategoryStyle,
	".less": CategoryStyle,

	".json": CategoryData,
	".yaml": CategoryData,
	".yml":  CategoryData,
	".toml": CategoryData,
	".xml":  CategoryData,
	".csv":  CategoryData,
	".sql":  CategoryData,

	".md":  CategoryDocs,
	".rst": CategoryDocs,
	".txt": CategoryDocs,

	".png":  CategoryImage,
	".jpg":  CategoryImage,
	".jpeg": CategoryImage,
	".gif":  CategoryImage,
	".svg":  CategoryImage,
	".ico":  CategoryImage,

	".mod":        CategoryBuild,
	".sum":        CategoryBuild,
	".lock":       CategoryBuild,
	".mk":         CategoryBuild,
	".dockerfile": CategoryBuild,
}

// categoryForPath maps a file path to its category via the extension
// table, falling back to "other".
func categoryForPath(p string) Category {
	ext := strings.ToLower(path.Ext(p))
	if c, ok := categoryByExt[ext]; ok {
		return c
	}
	base := strings.ToLower(path.Base(p))
	switch base {
	case "makefile", "dockerfile", "rakefile":
		return CategoryBuild
	}
	return CategoryOther
}

// Category hues, picked to stay readable on both theme backgrounds.
var categoryHue = map[Category]float64{
	CategorySource: 210, // blue
	CategoryScript: 130, // green
	CategoryWeb:    45,  // yellow
	CategoryStyle:  285, // purple
	CategoryData:   175, // teal
	CategoryDocs:   25,  // orange
	CategoryImage:  330, // pink
	CategoryBuild:  90,  // lime
	CategoryDir:    220, // muted blue
	CategoryOther:  0,   // red-gray
}

// colorFor returns the base color for a category.
func colorFor(c Category) colorful.Color {
	hue, ok := categoryHue[c]
	if !ok {
		hue = categoryHue[CategoryOther]
	}
	sat := 0.55
	lum := 0.62
	if c == CategoryDir {
		sat = 0.18
		lum = 0.55
	}
	return colorful.Hsl(hue, sat, lum)
}

// contributorColor assigns a stable color per contributor, spacing
// hues by index so neighboring avatars stay distinguishable.
func contributorColor(index int) colorful.Color {
	hue := float64((index * 137) % 360)
	return colorful.Hsl(hue, 0.65, 0.65)
}
