package dlexport

// BindImages attaches texture contents to every polygon of every draw command
// not bound to the font atlas. Each texture is fetched once per command.
//
// A failed fetch does not stop the export: the polygons get an ImageFill with
// Err set to a *TextureError and are rendered as transparent placeholders.
// It returns the number of commands whose texture could not be fetched.
func BindImages(state *DrawListState, atlasTex TextureID, textures TextureSource) int {
	return bindImages(state, func(id TextureID) bool { return id == atlasTex }, textures)
}

func bindImages(state *DrawListState, isAtlas func(TextureID) bool, textures TextureSource) int {
	failed := 0
	for i, cmd := range state.Cmds {
		if isAtlas(cmd.TextureID) {
			continue
		}

		fill := fetchTexture(cmd.TextureID, textures)
		if fill.Err != nil {
			failed++
			Logger().Warn("dlexport: texture unavailable, using placeholder",
				"texture", uint64(cmd.TextureID), "command", i, "err", fill.Err)
		}

		group := state.Groups[i]
		for j := range group {
			group[j].Payload = fill
		}
	}
	return failed
}

func fetchTexture(id TextureID, textures TextureSource) *ImageFill {
	if textures == nil {
		return &ImageFill{TextureID: id, Err: &TextureError{ID: id, Err: ErrTextureUnavailable}}
	}
	img, err := textures.Texture(id)
	if err == nil && img == nil {
		err = ErrTextureUnavailable
	}
	if err != nil {
		return &ImageFill{TextureID: id, Err: &TextureError{ID: id, Err: err}}
	}
	return &ImageFill{TextureID: id, Image: img}
}
