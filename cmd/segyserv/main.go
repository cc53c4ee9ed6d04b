// segyserv exposes SEG-Y datasets from an S3 bucket over HTTP: object
// listings, dataset metadata, trace header scans and PNG renders.
package main

import (
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/dsnet/compress/bzip2"
	"github.com/sirupsen/logrus"

	"github.com/jddeal/go-segy/segy"

	"github.com/gorilla/mux"
)

var (
	bucket = envOr("SEGYSERV_BUCKET", "open-seismic-trace-data")
	region = envOr("SEGYSERV_REGION", "us-east-1")
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logrus.SetLevel(logrus.DebugLevel)

	r := mux.NewRouter()
	r.HandleFunc("/segy", listHandler)
	r.HandleFunc("/segy/{key}", metaHandler)
	r.HandleFunc("/segy/{key}/headers", headersHandler)
	r.HandleFunc("/segy/{key}/render", rasterHandler)
	r.HandleFunc("/segy/{key}/{trace}/render", wiggleHandler)

	srv := &http.Server{
		Addr: "0.0.0.0:8081",
		// Good practice to set timeouts to avoid Slowloris attacks.
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      r,
	}

	logrus.Infof("serving bucket %s on %s", bucket, srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		fmt.Println(err)
	}
}

func s3Client() *s3.S3 {
	sess, _ := session.NewSession(&aws.Config{
		Credentials: credentials.AnonymousCredentials,
		Region:      aws.String(region),
	})
	return s3.New(sess)
}

func listHandler(w http.ResponseWriter, req *http.Request) {
	svc := s3Client()

	resp, err := svc.ListObjectsV2(&s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	keys := make([]string, 0, len(resp.Contents))
	for _, obj := range resp.Contents {
		keys = append(keys, *obj.Key)
	}

	j, _ := json.Marshal(keys)
	w.Write(j)
}

// loadDataset downloads the object to a temp file (SEG-Y needs random
// access) and opens it. Objects ending in .bz2 are decompressed on the way
// down; .su objects are opened headerless.
func loadDataset(key string) (*segy.Dataset, func(), error) {
	svc := s3Client()

	obj, err := svc.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, nil, err
	}
	defer obj.Body.Close()

	var body io.Reader = obj.Body
	name := key
	if strings.HasSuffix(name, ".bz2") {
		bz, err := bzip2.NewReader(obj.Body, nil)
		if err != nil {
			return nil, nil, err
		}
		body = bz
		name = strings.TrimSuffix(name, ".bz2")
	}

	tmp, err := os.CreateTemp("", "segyserv-*")
	if err != nil {
		return nil, nil, err
	}
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, nil, err
	}
	tmp.Close()

	opts := []segy.Option{}
	if strings.HasSuffix(name, ".su") {
		opts = append(opts, segy.WithSU())
	}

	d, err := segy.Open(tmp.Name(), opts...)
	if err != nil {
		os.Remove(tmp.Name())
		return nil, nil, err
	}

	cleanup := func() {
		d.Close()
		os.Remove(tmp.Name())
	}
	return d, cleanup, nil
}

type datasetMeta struct {
	Key         string `json:"key"`
	FileSize    int64  `json:"file_size"`
	Ns          int    `json:"ns"`
	Ntr         int    `json:"ntr"`
	SampleWidth int    `json:"sample_width"`
	Format      string `json:"format"`
	SU          bool   `json:"su"`
	TextHeader  string `json:"text_header,omitempty"`
}

func metaHandler(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	d, cleanup, err := loadDataset(vars["key"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer cleanup()

	j, _ := json.Marshal(datasetMeta{
		Key:         vars["key"],
		FileSize:    d.FileSize(),
		Ns:          d.Ns(),
		Ntr:         d.Ntr(),
		SampleWidth: d.SampleWidth(),
		Format:      d.Format().String(),
		SU:          d.IsSU(),
		TextHeader:  d.TextHeader(),
	})
	w.Write(j)
}

// headersHandler returns one header field across all traces, or whole
// headers for a bounded range.
func headersHandler(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	d, cleanup, err := loadDataset(vars["key"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer cleanup()

	field := req.URL.Query().Get("field")
	if field == "" {
		http.Error(w, "field query parameter required", http.StatusBadRequest)
		return
	}

	min, max := 0, 0
	if v := req.URL.Query().Get("min"); v != "" {
		min, _ = strconv.Atoi(v)
	}
	if v := req.URL.Query().Get("max"); v != "" {
		max, _ = strconv.Atoi(v)
	}

	if min != 0 || max != 0 {
		found, err := d.FindTraces(field, min, max)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		j, _ := json.Marshal(found)
		w.Write(j)
		return
	}

	values := make([]int, 0, d.Ntr())
	for i := 0; i < d.Ntr(); i++ {
		h, err := d.Headers().Get(i)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		values = append(values, h[field])
	}
	j, _ := json.Marshal(values)
	w.Write(j)
}

func rasterHandler(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	d, cleanup, err := loadDataset(vars["key"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer cleanup()

	traces, err := d.Traces(0, d.Ntr(), 1)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	img := renderRaster(traces, 1200, 800)
	png.Encode(w, img)
}

func wiggleHandler(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	traceNum, err := strconv.Atoi(vars["trace"])
	if err != nil {
		http.Error(w, "invalid trace number", http.StatusBadRequest)
		return
	}

	d, cleanup, err := loadDataset(vars["key"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer cleanup()

	trace, err := d.Trace(traceNum)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	img := renderWiggle(trace, 1000, 400)
	png.Encode(w, img)
}
