package main

import "github.com/hkcm91/StickerNestV3-sub007/cmd"

func main() {
	cmd.Execute()
}
