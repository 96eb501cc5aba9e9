// Package cli 实现 farmctl 命令行：离线问答、调用服务端问答和查看主题规则。
package cli

import (
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

// App 保存命令共享的依赖。
type App struct {
	Out        io.Writer
	HTTPClient *http.Client
}

// NewApp 返回使用默认 HTTP 客户端的 App。
func NewApp(out io.Writer) *App {
	return &App{
		Out:        out,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// NewRootCmd 创建顶层 farmctl 命令并注册全部子命令。
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "farmctl",
		Short:         "Farming assistant command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(app.Out)

	root.AddCommand(
		newAskCmd(app),
		newTopicsCmd(app),
	)
	return root
}
