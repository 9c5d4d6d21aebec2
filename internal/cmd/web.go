package cmd

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/qrsmith/qrsmith/internal/app"
	"github.com/qrsmith/qrsmith/internal/crypto"
	"github.com/qrsmith/qrsmith/internal/netutil"
	"github.com/qrsmith/qrsmith/internal/render"
	"github.com/qrsmith/qrsmith/internal/service"
	"github.com/qrsmith/qrsmith/internal/web"
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run the embedded web studio (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := mustLoadState()

		// flag > environment > stored settings
		listen, _ := cmd.Flags().GetString("listen")
		if listen == "" {
			listen = app.Environ().Listen
		}
		if listen == "" {
			listen = st.Settings.Listen
		}
		if chosen := netutil.ChooseListen(listen, []int{8089, 8090, 8091, 8099}); chosen != listen {
			fmt.Println(app.Color("Port busy, moving to:", "1;33"), chosen)
			listen = chosen
		}

		useTLS, _ := cmd.Flags().GetBool("tls")
		printQR, _ := cmd.Flags().GetBool("print-qr")

		srv := web.NewServer(st)
		httpSrv := &http.Server{
			Addr:              listen,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		scheme := "http"
		var certPath, keyPath string
		if useTLS {
			scheme = "https"
			var err error
			certPath, keyPath, err = crypto.EnsureKeypair([]string{"localhost", "127.0.0.1", netutil.LanIP()})
			if err != nil {
				return err
			}
			if fp, err := crypto.Fingerprint(certPath); err == nil {
				fmt.Println("Cert SHA-256:", fp)
			}
		}

		url := scheme + "://" + displayHost(listen)
		fmt.Println(app.Color("QRsmith "+app.Version, "1;36"))
		fmt.Println("State:", app.StatePath())
		fmt.Println("Web UI:", url)
		if st.Admin.PasswordBcrypt == "" {
			fmt.Println(app.Color("Auth is disabled; set a password with: qrsmith admin password", "1;33"))
		}
		if printQR {
			fmt.Println("Scan to open:")
			render.Terminal(os.Stdout, url, service.Defaults(st).Level)
		}

		logrus.WithFields(logrus.Fields{"component": "web", "listen": listen, "tls": useTLS}).Info("starting")
		if useTLS {
			return httpSrv.ListenAndServeTLS(certPath, keyPath)
		}
		return httpSrv.ListenAndServe()
	},
}

// displayHost rewrites wildcard binds to an address a browser can open.
func displayHost(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return listen
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = netutil.LanIP()
	}
	return net.JoinHostPort(host, port)
}

func init() {
	webCmd.Flags().String("listen", "", "listen address (default from state: "+app.DefaultListen+")")
	webCmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed certificate")
	webCmd.Flags().Bool("print-qr", false, "print a terminal QR code linking to the UI")
}
