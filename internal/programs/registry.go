// Package programs 汇总仓库内置的全部程序解码器。
package programs

import (
	"sol-decoder/internal/decode"
	"sol-decoder/internal/programs/pumpfun"
	"sol-decoder/internal/programs/system"
	"sol-decoder/internal/programs/token"
	"sol-decoder/internal/programs/token2022"
)

// NewDispatcher 构造注册了全部内置解码器的调度器。
// 新接入的程序在这里登记；注册顺序决定结果输出顺序。
func NewDispatcher() *decode.Dispatcher {
	d := decode.NewDispatcher()

	d.RegisterInstructionParser(system.NewParser())

	tokenParser := token.NewParser()
	d.RegisterInstructionParser(tokenParser)
	d.RegisterAccountParser(tokenParser)

	token2022Parser := token2022.NewParser()
	d.RegisterInstructionParser(token2022Parser)
	d.RegisterAccountParser(token2022Parser)

	pumpParser := pumpfun.NewParser()
	d.RegisterInstructionParser(pumpParser)
	d.RegisterAccountParser(pumpParser)

	return d
}
