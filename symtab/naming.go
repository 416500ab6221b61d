package symtab

import "strings"

// EnumName canonicalizes an enumerant name: tokens are upper-cased, empty tokens
// dropped and the "GL_" prefix ensured, so "GL_texture_2D__ext" and
// "GL_TEXTURE_2D_EXT" name the same constant.
func EnumName(raw string) string {
	toks := strings.Split(strings.TrimSpace(raw), "_")
	out := make([]string, 0, len(toks)+1)
	for _, t := range toks {
		if t == "" {
			continue
		}
		out = append(out, strings.ToUpper(t))
	}
	if len(out) == 0 {
		return ""
	}
	if out[0] != "GL" {
		out = append([]string{"GL"}, out...)
	}
	return strings.Join(out, "_")
}

// NormalizeType collapses whitespace in a C type spelling and attaches pointer
// stars with a single space: "const  GLfloat*" becomes "const GLfloat *".
func NormalizeType(t string) string {
	t = strings.ReplaceAll(t, "*", " * ")
	return strings.Join(strings.Fields(t), " ")
}
